package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/scenesmith/scenesmith"
	"github.com/scenesmith/scenesmith/pkg/domain"
)

// EntityResult aligns with the HTTP EntityView payload so MCP clients and
// REST consumers see the same shape.
type EntityResult struct {
	Entity domain.EntityView `json:"entity" jsonschema_description:"The entity after the operation"`
}

// SceneResult lists the live entities in scene insertion order.
type SceneResult struct {
	Entities []domain.EntityView `json:"entities" jsonschema_description:"All live entities"`
}

// GenerationResult carries the freshly appended generation entry.
type GenerationResult struct {
	EntityID string                 `json:"entityUuid" jsonschema_description:"UUID of the entity that owns the entry"`
	Entry    domain.GenerationEntry `json:"entry" jsonschema_description:"The appended generation entry, now current"`
}

// DeleteResult confirms an entity removal.
type DeleteResult struct {
	UUID    string `json:"uuid"`
	Deleted bool   `json:"deleted"`
}

// CommandResult reports an undo or redo outcome.
type CommandResult struct {
	Performed bool   `json:"performed" jsonschema_description:"False when the stack was empty"`
	Command   string `json:"command,omitempty" jsonschema_description:"Name of the command that was undone or redone"`
}

// ProjectResult wraps an exported project document.
type ProjectResult struct {
	Project *domain.Project `json:"project" jsonschema_description:"The portable project document"`
}

// Editor defines the editing surface the MCP server drives. The root
// scenesmith.Editor satisfies it.
type Editor interface {
	Entities() []domain.EntityView
	Entity(id uuid.UUID) (domain.EntityView, error)
	Spawn(ctx context.Context, req domain.SpawnRequest) (domain.EntityView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetTransform(ctx context.Context, id uuid.UUID, t domain.Transform) error
	GenerateImage(ctx context.Context, id uuid.UUID, prompt string, params domain.ImageParams) (domain.GenerationEntry, error)
	GenerateModel(ctx context.Context, id uuid.UUID, derivedFrom string) (domain.GenerationEntry, error)
	StepHistory(ctx context.Context, id uuid.UUID, entryID string) error
	StepPrev(ctx context.Context, id uuid.UUID) error
	StepNext(ctx context.Context, id uuid.UUID) error
	Undo(ctx context.Context) (string, error)
	Redo(ctx context.Context) (string, error)
	Export(name string) *domain.Project
}

// Server wraps a scenesmith Editor and exposes it as an MCP Server.
type Server struct {
	editor    Editor
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(editor Editor) *Server {
	s := &Server{
		editor:    editor,
		mcpServer: server.NewMCPServer("scenesmith-mcp", scenesmith.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	// Start the SSE server
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_entities
	listTool := mcp.NewTool("list_entities",
		mcp.WithDescription("List every live entity in the scene with transform, processing state and history cursor."),
		mcp.WithOutputSchema[SceneResult](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListEntities))

	// TOOL: spawn_entity
	spawnTool := mcp.NewTool("spawn_entity",
		mcp.WithDescription("Create a new entity in the scene. Undoable."),
		mcp.WithString("kind", mcp.Required(), mcp.Description("Entity kind: generative, shape, light or character")),
		mcp.WithString("name", mcp.Description("Display name (optional)")),
		mcp.WithString("transform", mcp.Description(`JSON transform, e.g. {"position":{"x":1,"y":0,"z":-2}} (optional, defaults to origin with unit scale)`)),
		mcp.WithOutputSchema[EntityResult](),
	)
	s.mcpServer.AddTool(spawnTool, mcp.NewStructuredToolHandler(s.handleSpawn))

	// TOOL: delete_entity
	deleteTool := mcp.NewTool("delete_entity",
		mcp.WithDescription("Remove an entity from the scene. Undoable; generated assets survive for redo."),
		mcp.WithString("uuid", mcp.Required(), mcp.Description("UUID of the entity to delete")),
		mcp.WithOutputSchema[DeleteResult](),
	)
	s.mcpServer.AddTool(deleteTool, mcp.NewStructuredToolHandler(s.handleDelete))

	// TOOL: set_transform
	transformTool := mcp.NewTool("set_transform",
		mcp.WithDescription("Apply a transform to an entity as a single undo step. Omitted fields keep their current value."),
		mcp.WithString("uuid", mcp.Required(), mcp.Description("UUID of the entity to move")),
		mcp.WithString("transform", mcp.Required(), mcp.Description(`JSON transform, e.g. {"position":{"x":1,"y":0,"z":-2},"scale":{"x":2,"y":2,"z":2}}`)),
		mcp.WithOutputSchema[EntityResult](),
	)
	s.mcpServer.AddTool(transformTool, mcp.NewStructuredToolHandler(s.handleSetTransform))

	// TOOL: generate_image
	imageTool := mcp.NewTool("generate_image",
		mcp.WithDescription("Generate a 2D concept image for a generative entity from a text prompt and append it to the entity's generation history."),
		mcp.WithString("uuid", mcp.Required(), mcp.Description("UUID of the target entity")),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Text prompt describing the asset")),
		mcp.WithString("ratio", mcp.Description("Aspect ratio hint, e.g. 1:1 or 16:9 (optional)")),
		mcp.WithString("negative_prompt", mcp.Description("Features to avoid (optional)")),
		mcp.WithOutputSchema[GenerationResult](),
	)
	s.mcpServer.AddTool(imageTool, mcp.NewStructuredToolHandler(s.handleGenerateImage))

	// TOOL: generate_model
	modelTool := mcp.NewTool("generate_model",
		mcp.WithDescription("Derive a 3D model from one of the entity's image entries and append it to the generation history."),
		mcp.WithString("uuid", mcp.Required(), mcp.Description("UUID of the target entity")),
		mcp.WithString("derived_from", mcp.Description("ID of the source image entry (optional, defaults to the current entry)")),
		mcp.WithOutputSchema[GenerationResult](),
	)
	s.mcpServer.AddTool(modelTool, mcp.NewStructuredToolHandler(s.handleGenerateModel))

	// TOOL: step_history
	stepTool := mcp.NewTool("step_history",
		mcp.WithDescription("Move an entity's generation cursor to revisit an earlier or later artifact without regenerating."),
		mcp.WithString("uuid", mcp.Required(), mcp.Description("UUID of the target entity")),
		mcp.WithString("entry_id", mcp.Description("Jump directly to this history entry")),
		mcp.WithString("direction", mcp.Description("Relative move: prev or next (ignored when entry_id is set)")),
		mcp.WithOutputSchema[EntityResult](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStepHistory))

	// TOOL: undo
	undoTool := mcp.NewTool("undo",
		mcp.WithDescription("Revert the most recent editing command. A no-op when the undo stack is empty."),
		mcp.WithOutputSchema[CommandResult](),
	)
	s.mcpServer.AddTool(undoTool, mcp.NewStructuredToolHandler(s.handleUndo))

	// TOOL: redo
	redoTool := mcp.NewTool("redo",
		mcp.WithDescription("Re-apply the most recently undone command. A no-op when the redo stack is empty."),
		mcp.WithOutputSchema[CommandResult](),
	)
	s.mcpServer.AddTool(redoTool, mcp.NewStructuredToolHandler(s.handleRedo))

	// TOOL: export_project
	exportTool := mcp.NewTool("export_project",
		mcp.WithDescription("Export the live scene as a portable project document, including full generation histories."),
		mcp.WithString("name", mcp.Description("Project name to stamp on the document (optional)")),
		mcp.WithOutputSchema[ProjectResult](),
	)
	s.mcpServer.AddTool(exportTool, mcp.NewStructuredToolHandler(s.handleExport))
}

// Handler methods for structured tools

func (s *Server) handleListEntities(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SceneResult, error) {
	return SceneResult{Entities: s.editor.Entities()}, nil
}

func (s *Server) handleSpawn(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EntityResult, error) {
	kindStr, _ := args["kind"].(string)
	kind := domain.EntityKind(kindStr)
	if !kind.Valid() {
		return EntityResult{}, fmt.Errorf("unknown entity kind %q", kindStr)
	}

	req := domain.SpawnRequest{Kind: kind}
	req.Name, _ = args["name"].(string)

	if raw := args["transform"]; raw != nil && raw != "" {
		tr := domain.IdentityTransform()
		if err := decodeTransform(raw, &tr); err != nil {
			return EntityResult{}, err
		}
		req.Transform = &tr
	}

	view, err := s.editor.Spawn(ctx, req)
	if err != nil {
		return EntityResult{}, fmt.Errorf("spawn failed: %w", err)
	}
	return EntityResult{Entity: view}, nil
}

func (s *Server) handleDelete(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DeleteResult, error) {
	id, err := entityUUID(args)
	if err != nil {
		return DeleteResult{}, err
	}
	if err := s.editor.Delete(ctx, id); err != nil {
		return DeleteResult{}, fmt.Errorf("delete failed: %w", err)
	}
	return DeleteResult{UUID: id.String(), Deleted: true}, nil
}

func (s *Server) handleSetTransform(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EntityResult, error) {
	id, err := entityUUID(args)
	if err != nil {
		return EntityResult{}, err
	}
	view, err := s.editor.Entity(id)
	if err != nil {
		return EntityResult{}, fmt.Errorf("lookup failed: %w", err)
	}

	// Decode over the live transform so omitted fields keep their value.
	tr := view.Transform
	if err := decodeTransform(args["transform"], &tr); err != nil {
		return EntityResult{}, err
	}

	if err := s.editor.SetTransform(ctx, id, tr); err != nil {
		return EntityResult{}, fmt.Errorf("set transform failed: %w", err)
	}
	return s.entityResult(id)
}

func (s *Server) handleGenerateImage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerationResult, error) {
	id, err := entityUUID(args)
	if err != nil {
		return GenerationResult{}, err
	}
	prompt, _ := args["prompt"].(string)
	if strings.TrimSpace(prompt) == "" {
		return GenerationResult{}, fmt.Errorf("prompt is required")
	}

	var params domain.ImageParams
	params.Ratio, _ = args["ratio"].(string)
	params.NegativePrompt, _ = args["negative_prompt"].(string)

	entry, err := s.editor.GenerateImage(ctx, id, prompt, params)
	if err != nil {
		slog.Warn("MCP generate_image failed", "entity", id, "error", err)
		return GenerationResult{}, fmt.Errorf("generate image failed: %w", err)
	}
	return GenerationResult{EntityID: id.String(), Entry: entry}, nil
}

func (s *Server) handleGenerateModel(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerationResult, error) {
	id, err := entityUUID(args)
	if err != nil {
		return GenerationResult{}, err
	}
	derivedFrom, _ := args["derived_from"].(string)

	entry, err := s.editor.GenerateModel(ctx, id, derivedFrom)
	if err != nil {
		slog.Warn("MCP generate_model failed", "entity", id, "error", err)
		return GenerationResult{}, fmt.Errorf("generate model failed: %w", err)
	}
	return GenerationResult{EntityID: id.String(), Entry: entry}, nil
}

func (s *Server) handleStepHistory(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EntityResult, error) {
	id, err := entityUUID(args)
	if err != nil {
		return EntityResult{}, err
	}
	entryID, _ := args["entry_id"].(string)
	direction, _ := args["direction"].(string)

	switch {
	case entryID != "":
		err = s.editor.StepHistory(ctx, id, entryID)
	case direction == "prev":
		err = s.editor.StepPrev(ctx, id)
	case direction == "next":
		err = s.editor.StepNext(ctx, id)
	default:
		return EntityResult{}, fmt.Errorf("either entry_id or direction (prev|next) is required")
	}
	if err != nil {
		return EntityResult{}, fmt.Errorf("step failed: %w", err)
	}
	return s.entityResult(id)
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CommandResult, error) {
	name, err := s.editor.Undo(ctx)
	if err != nil {
		return CommandResult{}, fmt.Errorf("undo failed: %w", err)
	}
	return CommandResult{Performed: name != "", Command: name}, nil
}

func (s *Server) handleRedo(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CommandResult, error) {
	name, err := s.editor.Redo(ctx)
	if err != nil {
		return CommandResult{}, fmt.Errorf("redo failed: %w", err)
	}
	return CommandResult{Performed: name != "", Command: name}, nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ProjectResult, error) {
	name, _ := args["name"].(string)
	return ProjectResult{Project: s.editor.Export(name)}, nil
}

func (s *Server) entityResult(id uuid.UUID) (EntityResult, error) {
	view, err := s.editor.Entity(id)
	if err != nil {
		return EntityResult{}, fmt.Errorf("lookup failed: %w", err)
	}
	return EntityResult{Entity: view}, nil
}

func entityUUID(args map[string]interface{}) (uuid.UUID, error) {
	raw, _ := args["uuid"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid entity uuid %q", raw)
	}
	return id, nil
}

// decodeTransform accepts the documented JSON-string form as well as an
// inline object, which agents send despite the schema. Both forms decode
// onto base, so omitted fields keep their value.
func decodeTransform(raw interface{}, base *domain.Transform) error {
	switch v := raw.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), base); err != nil {
			return fmt.Errorf("transform rejected: %w", err)
		}
	case map[string]interface{}:
		if err := mapstructure.Decode(v, base); err != nil {
			return fmt.Errorf("transform rejected: %w", err)
		}
	case nil:
		return fmt.Errorf("transform is required")
	default:
		return fmt.Errorf("transform must be a JSON string or object, got %T", raw)
	}
	return nil
}

func (s *Server) registerResources() {
	// EXPOSE: scenesmith://project
	s.mcpServer.AddResource(mcp.NewResource("scenesmith://project", "Live Project Document",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(s.editor.Export(""))

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "scenesmith://project",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
