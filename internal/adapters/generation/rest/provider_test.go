package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// fakeService simulates a generation backend that walks each job
// through a fixed sequence of status responses.
type fakeService struct {
	t        *testing.T
	statuses []jobStatus
	polls    atomic.Int64
	lastJob  submitRequest
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generations", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.lastJob))
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"id":"job-1"}`)
	})
	mux.HandleFunc("GET /generations/job-1", func(w http.ResponseWriter, r *http.Request) {
		n := int(f.polls.Add(1)) - 1
		if n >= len(f.statuses) {
			n = len(f.statuses) - 1
		}
		require.NoError(f.t, json.NewEncoder(w).Encode(f.statuses[n]))
	})
	return mux
}

func newTestProvider(t *testing.T, svc *fakeService, opts ...Option) *Provider {
	t.Helper()
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)
	opts = append([]Option{
		WithHTTPClient(srv.Client()),
		WithPollInterval(2 * time.Millisecond),
	}, opts...)
	return New(srv.URL+"/", opts...)
}

func TestGenerateImagePollsToCompletion(t *testing.T) {
	svc := &fakeService{t: t, statuses: []jobStatus{
		{Status: statusQueued, Message: "waiting for a worker"},
		{Status: statusRunning, Message: "rendering"},
		{Status: statusRunning, Message: "rendering"},
		{Status: statusDone, FileURL: "https://assets.example/cube.png"},
	}}
	provider := newTestProvider(t, svc)

	var messages []string
	url, err := provider.GenerateImage(context.Background(), "a red cube",
		domain.ImageParams{Ratio: "1:1", NegativePrompt: "blur"},
		func(msg string) { messages = append(messages, msg) })
	require.NoError(t, err)

	assert.Equal(t, "https://assets.example/cube.png", url)
	assert.Equal(t, []string{"waiting for a worker", "rendering"}, messages,
		"repeated messages should be reported once")
	assert.Equal(t, submitRequest{
		Kind:           "image",
		Prompt:         "a red cube",
		Ratio:          "1:1",
		NegativePrompt: "blur",
	}, svc.lastJob)
}

func TestGenerateModelSubmitsImageURL(t *testing.T) {
	svc := &fakeService{t: t, statuses: []jobStatus{
		{Status: statusDone, FileURL: "https://assets.example/cube.glb"},
	}}
	provider := newTestProvider(t, svc)

	url, err := provider.GenerateModel(context.Background(), "https://assets.example/cube.png", nil)
	require.NoError(t, err)

	assert.Equal(t, "https://assets.example/cube.glb", url)
	assert.Equal(t, submitRequest{
		Kind:     "model",
		ImageURL: "https://assets.example/cube.png",
	}, svc.lastJob)
}

func TestGenerateImageFailure(t *testing.T) {
	svc := &fakeService{t: t, statuses: []jobStatus{
		{Status: statusRunning},
		{Status: statusFailed, Error: "prompt rejected"},
	}}
	provider := newTestProvider(t, svc)

	_, err := provider.GenerateImage(context.Background(), "a cube", domain.ImageParams{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt rejected")
}

func TestGenerateImageContextCancellation(t *testing.T) {
	svc := &fakeService{t: t, statuses: []jobStatus{
		{Status: statusRunning},
	}}
	provider := newTestProvider(t, svc)

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	_, err := provider.GenerateImage(ctx, "a cube", domain.ImageParams{}, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubmitRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	provider := New(srv.URL, WithHTTPClient(srv.Client()), WithPollInterval(time.Millisecond))

	_, err := provider.GenerateImage(context.Background(), "a cube", domain.ImageParams{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestBearerToken(t *testing.T) {
	var header atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"id":"job-1","status":"done","fileUrl":"https://assets.example/a.png"}`)
	}))
	defer srv.Close()

	provider := New(srv.URL,
		WithHTTPClient(srv.Client()),
		WithPollInterval(time.Millisecond),
		WithToken("secret"),
	)

	_, err := provider.GenerateImage(context.Background(), "a cube", domain.ImageParams{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", header.Load())
}
