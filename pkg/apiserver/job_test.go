package apiserver_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/alutov/hirecs/pkg/apiserver"
	"github.com/alutov/hirecs/pkg/hierarchy"
)

const triangleHig = `/Graph weighted:0
/Nodes 3 0
/Edges
0 > 1 2
1 > 2
`

func waitForTerminal(t *testing.T, jobs *apiserver.JobService, id string) *apiserver.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := jobs.Get(id)
		require.True(t, ok)
		if job.Status == apiserver.JobSucceeded || job.Status == apiserver.JobFailed {
			return job
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state in time")
	return nil
}

func TestSubmitAndRetrieveSucceededJob(t *testing.T) {
	jobs := apiserver.NewJobService(2, zerolog.Nop())
	job := jobs.Submit(apiserver.SubmitRequest{
		Payload: []byte(triangleHig),
		Options: hierarchy.Options{Symmetric: true, Validate: true, Margin: -0.999},
	})
	require.NotEmpty(t, job.ID)

	done := waitForTerminal(t, jobs, job.ID)
	require.Equal(t, apiserver.JobSucceeded, done.Status)

	h, err := jobs.Result(job.ID)
	require.NoError(t, err)
	require.Len(t, h.Nodes(), 3)
}

func TestSubmitInvalidPayloadFails(t *testing.T) {
	jobs := apiserver.NewJobService(1, zerolog.Nop())
	job := jobs.Submit(apiserver.SubmitRequest{
		Payload: []byte("/Nodes 2\n/Edges\n0 > 9\n"),
		Options: hierarchy.Options{Symmetric: true, Margin: -0.999},
	})

	done := waitForTerminal(t, jobs, job.ID)
	require.Equal(t, apiserver.JobFailed, done.Status)
	require.NotEmpty(t, done.Message)
}

func TestGetUnknownJobNotFound(t *testing.T) {
	jobs := apiserver.NewJobService(1, zerolog.Nop())
	_, ok := jobs.Get("does-not-exist")
	require.False(t, ok)
}

func TestHTTPHealthCheck(t *testing.T) {
	jobs := apiserver.NewJobService(1, zerolog.Nop())
	handlers := apiserver.NewHandlers(jobs, zerolog.Nop())
	router := apiserver.NewRouter(handlers, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPSubmitAcceptsHigPayload(t *testing.T) {
	jobs := apiserver.NewJobService(1, zerolog.Nop())
	handlers := apiserver.NewHandlers(jobs, zerolog.Nop())
	router := apiserver.NewRouter(handlers, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader([]byte(triangleHig)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHTTPSubmitRejectsEmptyBody(t *testing.T) {
	jobs := apiserver.NewJobService(1, zerolog.Nop())
	handlers := apiserver.NewHandlers(jobs, zerolog.Nop())
	router := apiserver.NewRouter(handlers, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
