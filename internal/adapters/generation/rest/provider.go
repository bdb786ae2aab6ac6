// Package rest implements ports.GenerationClient against a generic
// JSON-over-HTTP generation service, the kind self-hosted pipelines
// expose: jobs are submitted with a POST and polled until they resolve.
//
// The wire contract is deliberately small:
//
//	POST {base}/generations         {"kind":"image","prompt":...}   -> {"id":"..."}
//	GET  {base}/generations/{id}                                    -> {"status":...,"message":...,"fileUrl":...,"error":...}
//
// Status moves through "queued" and "running" before landing on "done"
// or "failed". Message changes are forwarded to the progress callback.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

const (
	statusQueued  = "queued"
	statusRunning = "running"
	statusDone    = "done"
	statusFailed  = "failed"
)

// DefaultPollInterval is how often job status is refreshed unless
// overridden with WithPollInterval.
const DefaultPollInterval = 500 * time.Millisecond

// Provider is a polling client for one generation service.
type Provider struct {
	base     string
	token    string
	client   *http.Client
	interval time.Duration
}

var _ ports.GenerationClient = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient substitutes the transport, typically an
// httptest.Server client in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// WithPollInterval adjusts how often job status is refreshed.
func WithPollInterval(interval time.Duration) Option {
	return func(p *Provider) {
		p.interval = interval
	}
}

// WithToken sends the given bearer token on every request.
func WithToken(token string) Option {
	return func(p *Provider) {
		p.token = token
	}
}

// New builds a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Provider {
	p := &Provider{
		base:     strings.TrimRight(baseURL, "/"),
		client:   http.DefaultClient,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type submitRequest struct {
	Kind           string `json:"kind"`
	Prompt         string `json:"prompt,omitempty"`
	Ratio          string `json:"ratio,omitempty"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type jobStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	FileURL string `json:"fileUrl,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GenerateImage submits an image job and polls it to completion.
func (p *Provider) GenerateImage(ctx context.Context, prompt string, params domain.ImageParams, progress ports.ProgressFunc) (string, error) {
	id, err := p.submit(ctx, submitRequest{
		Kind:           "image",
		Prompt:         prompt,
		Ratio:          params.Ratio,
		NegativePrompt: params.NegativePrompt,
	})
	if err != nil {
		return "", err
	}
	return p.await(ctx, id, progress)
}

// GenerateModel submits a model job for the given source image and
// polls it to completion.
func (p *Provider) GenerateModel(ctx context.Context, imageURL string, progress ports.ProgressFunc) (string, error) {
	id, err := p.submit(ctx, submitRequest{
		Kind:     "model",
		ImageURL: imageURL,
	})
	if err != nil {
		return "", err
	}
	return p.await(ctx, id, progress)
}

func (p *Provider) submit(ctx context.Context, job submitRequest) (string, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("generation rest: encode %s job: %w", job.Kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.base+"/generations", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("generation rest: build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	p.authorize(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation rest: submit %s job: %w", job.Kind, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	default:
		return "", fmt.Errorf("generation rest: submit %s job: unexpected status %s", job.Kind, resp.Status)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("generation rest: decode submit response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("generation rest: submit response carried no job id")
	}
	return out.ID, nil
}

func (p *Provider) await(ctx context.Context, id string, progress ports.ProgressFunc) (string, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var lastMessage string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		status, err := p.poll(ctx, id)
		if err != nil {
			return "", err
		}

		if progress != nil && status.Message != "" && status.Message != lastMessage {
			progress(status.Message)
			lastMessage = status.Message
		}

		switch status.Status {
		case statusDone:
			if status.FileURL == "" {
				return "", fmt.Errorf("generation rest: job %s finished without a file", id)
			}
			return status.FileURL, nil
		case statusFailed:
			reason := status.Error
			if reason == "" {
				reason = "provider reported failure"
			}
			return "", fmt.Errorf("generation rest: job %s: %s", id, reason)
		case statusQueued, statusRunning, "":
			// keep polling
		default:
			return "", fmt.Errorf("generation rest: job %s: unknown status %q", id, status.Status)
		}
	}
}

func (p *Provider) poll(ctx context.Context, id string) (jobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base+"/generations/"+id, nil)
	if err != nil {
		return jobStatus{}, fmt.Errorf("generation rest: build poll request: %w", err)
	}
	p.authorize(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return jobStatus{}, fmt.Errorf("generation rest: poll job %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return jobStatus{}, fmt.Errorf("generation rest: poll job %s: unexpected status %s", id, resp.Status)
	}

	var status jobStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return jobStatus{}, fmt.Errorf("generation rest: decode job %s status: %w", id, err)
	}
	return status, nil
}

func (p *Provider) authorize(req *http.Request) {
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
}
