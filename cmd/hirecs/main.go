// Command hirecs is the CLI front-end named in spec.md §6: it parses the
// original C++ Client's short-flag argument style, loads a .hig graph,
// drives the clustering engine, and writes the resulting hierarchy in
// text, CSV, or JSON form.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alutov/hirecs/pkg/config"
	"github.com/alutov/hirecs/pkg/format"
	"github.com/alutov/hirecs/pkg/hierarchy"
	"github.com/alutov/hirecs/pkg/hig"
	"github.com/alutov/hirecs/pkg/telemetry"
)

// cliOptions is the result of parsing the flag set spec.md §6 names.
type cliOptions struct {
	outputKind string // "t", "c", or "j"
	unwrap     bool   // 'e' suffix
	levels     bool   // 'd' suffix
	skipValidate bool // -c
	fast       bool   // -f
	shuffle    bool   // -r
	margin     float64
	path       string
}

func parseArgs(args []string) (cliOptions, error) {
	opts := cliOptions{outputKind: "t", margin: -0.999}
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "-o"):
			rest := a[2:]
			if rest == "" {
				return opts, fmt.Errorf("-o requires a format letter")
			}
			switch rest[0] {
			case 't', 'c', 'j':
				opts.outputKind = string(rest[0])
			default:
				return opts, fmt.Errorf("unknown output format %q", rest[0])
			}
			for _, mod := range rest[1:] {
				switch mod {
				case 'e':
					opts.unwrap = true
				case 'd':
					opts.levels = true
				default:
					return opts, fmt.Errorf("unknown output modifier %q", mod)
				}
			}
		case a == "-c":
			opts.skipValidate = true
		case a == "-f":
			opts.fast = true
		case a == "-r":
			opts.shuffle = true
		case strings.HasPrefix(a, "-m"):
			v, err := strconv.ParseFloat(a[2:], 64)
			if err != nil {
				return opts, fmt.Errorf("invalid margin %q: %w", a[2:], err)
			}
			if v < -1 || v > 1 {
				return opts, fmt.Errorf("margin %v out of range [-1, 1]", v)
			}
			opts.margin = v
		case strings.HasPrefix(a, "-"):
			return opts, fmt.Errorf("unknown flag %q", a)
		default:
			if opts.path != "" {
				return opts, fmt.Errorf("unexpected extra argument %q", a)
			}
			opts.path = a
		}
	}
	if opts.path == "" {
		return opts, fmt.Errorf("missing input .hig path")
	}
	return opts, nil
}

func run(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg := config.New()
	cfg.Set("algorithm.margin", opts.margin)
	cfg.Set("algorithm.fast", opts.fast)
	cfg.Set("algorithm.validate", !opts.skipValidate)
	cfg.Set("algorithm.shuffle", opts.shuffle)

	logger := telemetry.New(cfg, "hirecs")

	f, err := os.Open(opts.path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	nodes, directed, signed, err := hig.Load(f, cfg.Shuffle())
	if err != nil {
		return fmt.Errorf("parse .hig: %w", err)
	}
	logger.Info().Int("nodes", len(nodes)).Bool("directed", directed).Bool("signed", signed).Msg("graph loaded")

	h, err := hierarchy.Build(nodes, hierarchy.Options{
		// Per SPEC_FULL.md §10: symmetric (the cheaper formula) only applies
		// to unsigned, undirected graphs; a signed or directed graph falls
		// back to the general asymmetric formula (spec.md §3/§4.3.1).
		Symmetric: !signed && !directed,
		Fast:      cfg.Fast(),
		Validate:  cfg.Validate(),
		Margin:    cfg.Margin(),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("build hierarchy: %w", err)
	}

	fopts := format.Options{Unwrap: opts.unwrap, Levels: opts.levels}
	switch opts.outputKind {
	case "j":
		err = format.WriteJSON(os.Stdout, h, fopts)
	case "c":
		err = format.WriteCSV(os.Stdout, h, fopts)
	default:
		err = format.WriteText(os.Stdout, h, fopts)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "hirecs:", err)
		os.Exit(1)
	}
}
