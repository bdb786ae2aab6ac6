package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go ../../../api/openapi.yaml

// Editor defines the editing surface the HTTP adapter exposes. The root
// scenesmith.Editor satisfies it.
type Editor interface {
	Entities() []domain.EntityView
	Entity(id uuid.UUID) (domain.EntityView, error)
	Spawn(ctx context.Context, req domain.SpawnRequest) (domain.EntityView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateImage(ctx context.Context, id uuid.UUID, prompt string, params domain.ImageParams) (domain.GenerationEntry, error)
	GenerateModel(ctx context.Context, id uuid.UUID, derivedFrom string) (domain.GenerationEntry, error)
	History(id uuid.UUID) (*domain.GenerationHistory, error)
	StepHistory(ctx context.Context, id uuid.UUID, entryID string) error
	StepPrev(ctx context.Context, id uuid.UUID) error
	StepNext(ctx context.Context, id uuid.UUID) error
	ProcessingState(id uuid.UUID) domain.ProcessingState
	SubscribeStatus(id uuid.UUID, fn func(domain.ProcessingState)) func()
	Undo(ctx context.Context) (string, error)
	Redo(ctx context.Context) (string, error)
	Export(name string) *domain.Project
	Restore(ctx context.Context, project *domain.Project) (*domain.RestoreReport, error)
}

// Server implements the generated ServerInterface
type Server struct {
	Editor Editor
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// NewHandler creates a new HTTP handler for the editor.
func NewHandler(editor Editor) http.Handler {
	server := &Server{Editor: editor}
	r := chi.NewRouter()

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		// Use the generated rawSpec function to get the embedded spec
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			slog.Error("Failed to load OpenAPI spec", "error", err)
			return
		}
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	handler := HandlerFromMux(server, r)
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Scenesmith API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetProject handles the GET /project request.
func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	project := s.Editor.Export("")
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(project); err != nil {
		slog.Error("GetProject response encode failed", "error", err)
	}
}

// PutProject handles the PUT /project request. The document's entity
// records may reference each other in any order; the editor resolves
// forward references in its second pass, so the handler hands the document
// over unfiltered.
func (s *Server) PutProject(w http.ResponseWriter, r *http.Request) {
	var project domain.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("PutProject: Invalid request body", "error", err)
		return
	}

	report, err := s.Editor.Restore(r.Context(), &project)
	if err != nil {
		http.Error(w, fmt.Sprintf("Restore error: %v", err), http.StatusInternalServerError)
		slog.Error("Restore failed", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		slog.Error("PutProject response encode failed", "error", err)
	}
}

// ListEntities handles the GET /entities request.
func (s *Server) ListEntities(w http.ResponseWriter, r *http.Request) {
	views := s.Editor.Entities()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		slog.Error("ListEntities response encode failed", "error", err)
	}
}

// SpawnEntity handles the POST /entities request.
func (s *Server) SpawnEntity(w http.ResponseWriter, r *http.Request) {
	var body SpawnEntityJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("SpawnEntity: Invalid request body", "error", err)
		return
	}

	kind := domain.EntityKind(body.EntityType)
	if !kind.Valid() {
		http.Error(w, fmt.Sprintf("Unknown entity kind %q", body.EntityType), http.StatusBadRequest)
		return
	}

	req := domain.SpawnRequest{Kind: kind}
	if body.Name != nil {
		req.Name = *body.Name
	}
	if body.Transform != nil {
		t := toDomainTransform(*body.Transform)
		req.Transform = &t
	}

	view, err := s.Editor.Spawn(r.Context(), req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Spawn error: %v", err), statusFor(err))
		slog.Error("Spawn failed", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		slog.Error("SpawnEntity response encode failed", "error", err)
	}
}

// DeleteEntity handles the DELETE /entities/{uuid} request. The entity's
// resources survive for a later undo; only the scene stops showing it.
func (s *Server) DeleteEntity(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := s.Editor.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), statusFor(err))
		slog.Warn("Delete failed", "entity", id, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateImage handles the POST /entities/{uuid}/generate/image request.
// The call blocks until the provider resolves; progress is observable on
// the status stream meanwhile.
func (s *Server) GenerateImage(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var body GenerateImageJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("GenerateImage: Invalid request body", "error", err)
		return
	}
	if strings.TrimSpace(body.Prompt) == "" {
		http.Error(w, "Prompt is required", http.StatusBadRequest)
		return
	}

	var params domain.ImageParams
	if body.Ratio != nil {
		params.Ratio = *body.Ratio
	}
	if body.NegativePrompt != nil {
		params.NegativePrompt = *body.NegativePrompt
	}

	entry, err := s.Editor.GenerateImage(r.Context(), id, body.Prompt, params)
	if err != nil {
		http.Error(w, fmt.Sprintf("Generate error: %v", err), generateStatusFor(err))
		slog.Error("Image generation failed", "entity", id, "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entry); err != nil {
		slog.Error("GenerateImage response encode failed", "error", err)
	}
}

// GenerateModel handles the POST /entities/{uuid}/generate/model request.
func (s *Server) GenerateModel(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var body GenerateModelJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("GenerateModel: Invalid request body", "error", err)
		return
	}

	derivedFrom := ""
	if body.DerivedFromId != nil {
		derivedFrom = *body.DerivedFromId
	}

	entry, err := s.Editor.GenerateModel(r.Context(), id, derivedFrom)
	if err != nil {
		http.Error(w, fmt.Sprintf("Generate error: %v", err), generateStatusFor(err))
		slog.Error("Model generation failed", "entity", id, "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entry); err != nil {
		slog.Error("GenerateModel response encode failed", "error", err)
	}
}

// GetHistory handles the GET /entities/{uuid}/history request.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	history, err := s.Editor.History(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("History error: %v", err), statusFor(err))
		slog.Warn("History read failed", "entity", id, "error", err)
		return
	}
	if history.Entries == nil {
		history.Entries = []domain.GenerationEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(history); err != nil {
		slog.Error("GetHistory response encode failed", "error", err)
	}
}

// StepHistory handles the POST /entities/{uuid}/history/step request and
// responds with the entity view after the move. Stepping to an unknown
// entry or past either end of the log leaves the cursor where it was.
func (s *Server) StepHistory(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var body StepHistoryJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("StepHistory: Invalid request body", "error", err)
		return
	}

	var err error
	switch {
	case body.EntryId != nil && *body.EntryId != "":
		err = s.Editor.StepHistory(r.Context(), id, *body.EntryId)
	case body.Direction != nil && *body.Direction == StepRequestDirectionPrev:
		err = s.Editor.StepPrev(r.Context(), id)
	case body.Direction != nil && *body.Direction == StepRequestDirectionNext:
		err = s.Editor.StepNext(r.Context(), id)
	default:
		http.Error(w, "Either entryId or direction is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Step error: %v", err), statusFor(err))
		slog.Warn("History step failed", "entity", id, "error", err)
		return
	}

	view, err := s.Editor.Entity(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Step error: %v", err), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		slog.Error("StepHistory response encode failed", "error", err)
	}
}

// StreamStatus handles the GET /entities/{uuid}/status request (SSE). The
// stream opens with a snapshot of the current processing state and then
// carries every transition until the client disconnects.
func (s *Server) StreamStatus(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("StreamStatus: Streaming not supported")
		return
	}

	// Resolve the entity before committing to the event stream, while a
	// plain error response is still possible.
	if _, err := s.Editor.Entity(id); err != nil {
		http.Error(w, fmt.Sprintf("Status error: %v", err), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates := make(chan domain.ProcessingState, 10)
	cancel := s.Editor.SubscribeStatus(id, func(state domain.ProcessingState) {
		select {
		case updates <- state:
		default:
			// Drop the update if the client cannot keep up; the next one
			// carries the fresher state anyway.
			slog.Warn("SSE: Client buffer full, dropping status", "entity", id)
		}
	})
	defer cancel()

	writeState := func(state domain.ProcessingState) {
		payload, err := json.Marshal(state)
		if err != nil {
			slog.Error("StreamStatus encode failed", "entity", id, "error", err)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
	writeState(s.Editor.ProcessingState(id))

	for {
		select {
		case <-r.Context().Done():
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			writeState(state)
		}
	}
}

// Undo handles the POST /undo request. An empty stack performs nothing and
// reports so instead of erroring.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	name, err := s.Editor.Undo(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Undo error: %v", err), http.StatusInternalServerError)
		slog.Error("Undo failed", "error", err)
		return
	}
	writeCommandResult(w, name)
}

// Redo handles the POST /redo request.
func (s *Server) Redo(w http.ResponseWriter, r *http.Request) {
	name, err := s.Editor.Redo(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Redo error: %v", err), http.StatusInternalServerError)
		slog.Error("Redo failed", "error", err)
		return
	}
	writeCommandResult(w, name)
}

// GetHealthz handles the GET /healthz request.
func (s *Server) GetHealthz(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// -- Helpers --

func ptr[T any](v T) *T {
	return &v
}

func writeCommandResult(w http.ResponseWriter, name string) {
	resp := CommandResult{Performed: name != ""}
	if name != "" {
		resp.Command = ptr(name)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Command response encode failed", "error", err)
	}
}

// statusFor maps editor errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntityNotFound),
		errors.Is(err, domain.ErrUnknownDerivation),
		errors.Is(err, domain.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGenerationInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGenerationUnsupported):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// generateStatusFor maps generation errors. Once the editor-side checks
// have all passed, the remaining failure mode is the upstream provider.
func generateStatusFor(err error) int {
	if status := statusFor(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusBadGateway
}

func toDomainTransform(t Transform) domain.Transform {
	return domain.Transform{
		Position: domain.Vec3(t.Position),
		Rotation: domain.Vec3(t.Rotation),
		Scale:    domain.Vec3(t.Scale),
	}
}
