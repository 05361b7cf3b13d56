package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alutov/hirecs/pkg/config"
)

func TestDefaultsMatchSpecCLIDefaults(t *testing.T) {
	c := config.New()
	require.Equal(t, -0.999, c.Margin())
	require.False(t, c.Fast())
	require.True(t, c.Validate())
	require.False(t, c.Shuffle())
	require.Equal(t, "info", c.LogLevel())
	require.Equal(t, ":8080", c.ServerAddr())
}

func TestSetOverridesDefault(t *testing.T) {
	c := config.New()
	c.Set("algorithm.margin", 0.5)
	require.Equal(t, 0.5, c.Margin())

	c.Set("algorithm.fast", true)
	require.True(t, c.Fast())
}

func TestNumWorkersDefaultsToPositive(t *testing.T) {
	c := config.New()
	require.Greater(t, c.NumWorkers(), 0)
}
