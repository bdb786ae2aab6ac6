package scenesmith

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/scenesmith/scenesmith/pkg/domain"
)

// Session drives an Editor from line-oriented input. It decouples the
// editing loop from any particular frontend (CLI, tests, scripted batch).
type Session struct {
	Editor   *Editor
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms command output before it is written. This
// allows TUI rendering (markdown to ANSI) without coupling the root package.
type ContentRenderer func(string) (string, error)

// NewSession creates a Session bound to an editor. The caller sets Input
// and Output (typically os.Stdin and os.Stdout) before calling Run.
func NewSession(editor *Editor) *Session {
	return &Session{Editor: editor}
}

const sessionHelp = `commands:
  ls                                 list entities
  spawn <kind> [name]                create an entity (generative, shape, light, character)
  rm <entity>                        delete an entity
  mv <entity> <x> <y> <z>            move an entity
  generate <entity> <prompt>         generate a concept image
  model <entity> [image-entry]       derive a 3D model from an image entry
  history <entity>                   show the generation history
  step <entity> <prev|next|id>       move the history cursor
  status <entity>                    show processing state
  undo / redo                        step the command stack
  save <name> / load <name>          persist or restore via the project store
  export [name]                      print the project document as JSON
  exit                               leave the session`

// Run executes the editing loop until EOF or an exit command. Command
// failures are reported to the output and do not end the session.
func (s *Session) Run(ctx context.Context) error {
	if s.Editor == nil {
		return fmt.Errorf("session editor must be set")
	}
	if s.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if s.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	reader := bufio.NewReader(s.Input)

	if !s.Headless {
		fmt.Fprintln(s.Output, "--- scenesmith editor ---")
		fmt.Fprintln(s.Output, "type 'help' for commands, 'exit' to leave")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !s.Headless {
			fmt.Fprint(s.Output, "> ")
		}
		text, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Graceful exit on EOF
				break
			}
			return fmt.Errorf("input error: %w", err)
		}
		line := strings.TrimSpace(text)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(s.Output, "Bye!")
			break
		}

		out, err := s.dispatch(ctx, line)
		if err != nil {
			fmt.Fprintf(s.Output, "error: %v\n", err)
			continue
		}
		if out == "" {
			continue
		}
		if s.Renderer != nil {
			if rendered, err := s.Renderer(out); err == nil {
				out = rendered
			}
		}
		fmt.Fprintln(s.Output, strings.TrimSpace(out))
	}
	return nil
}

func (s *Session) dispatch(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		return sessionHelp, nil

	case "ls":
		return s.renderEntityList(), nil

	case "spawn":
		if len(args) < 1 {
			return "", fmt.Errorf("usage: spawn <kind> [name]")
		}
		kind := domain.EntityKind(args[0])
		if !kind.Valid() {
			return "", fmt.Errorf("unknown entity kind %q", args[0])
		}
		view, err := s.Editor.Spawn(ctx, domain.SpawnRequest{
			Kind: kind,
			Name: strings.Join(args[1:], " "),
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("spawned %s %s", kind, entityLabel(view)), nil

	case "rm":
		if len(args) < 1 {
			return "", fmt.Errorf("usage: rm <entity>")
		}
		view, err := s.resolve(args[0])
		if err != nil {
			return "", err
		}
		if err := s.Editor.Delete(ctx, view.UUID); err != nil {
			return "", err
		}
		return fmt.Sprintf("deleted %s", entityLabel(view)), nil

	case "mv":
		if len(args) != 4 {
			return "", fmt.Errorf("usage: mv <entity> <x> <y> <z>")
		}
		view, err := s.resolve(args[0])
		if err != nil {
			return "", err
		}
		pos, err := parseVec3(args[1], args[2], args[3])
		if err != nil {
			return "", err
		}
		tr := view.Transform
		tr.Position = pos
		if err := s.Editor.SetTransform(ctx, view.UUID, tr); err != nil {
			return "", err
		}
		return fmt.Sprintf("moved %s to (%g, %g, %g)", entityLabel(view), pos.X, pos.Y, pos.Z), nil

	case "generate":
		if len(args) < 2 {
			return "", fmt.Errorf("usage: generate <entity> <prompt>")
		}
		view, err := s.resolve(args[0])
		if err != nil {
			return "", err
		}
		prompt := strings.Join(args[1:], " ")
		entry, err := s.Editor.GenerateImage(ctx, view.UUID, prompt, domain.ImageParams{})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("generated image %s -> %s", entry.ID, entry.FileURL), nil

	case "model":
		if len(args) < 1 {
			return "", fmt.Errorf("usage: model <entity> [image-entry]")
		}
		view, err := s.resolve(args[0])
		if err != nil {
			return "", err
		}
		derivedFrom := ""
		if len(args) > 1 {
			derivedFrom = args[1]
		}
		entry, err := s.Editor.GenerateModel(ctx, view.UUID, derivedFrom)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("generated model %s -> %s", entry.ID, entry.FileURL), nil

	case "history":
		if len(args) < 1 {
			return "", fmt.Errorf("usage: history <entity>")
		}
		view, err := s.resolve(args[0])
		if err != nil {
			return "", err
		}
		h, err := s.Editor.History(view.UUID)
		if err != nil {
			return "", err
		}
		return renderHistory(h), nil

	case "step":
		if len(args) < 2 {
			return "", fmt.Errorf("usage: step <entity> <prev|next|entry-id>")
		}
		view, err := s.resolve(args[0])
		if err != nil {
			return "", err
		}
		switch args[1] {
		case "prev":
			err = s.Editor.StepPrev(ctx, view.UUID)
		case "next":
			err = s.Editor.StepNext(ctx, view.UUID)
		default:
			err = s.Editor.StepHistory(ctx, view.UUID, args[1])
		}
		if err != nil {
			return "", err
		}
		after, err := s.Editor.Entity(view.UUID)
		if err != nil {
			return "", err
		}
		if after.CurrentEntry == nil {
			return "history empty", nil
		}
		return fmt.Sprintf("history %d/%d, current %s", after.HistoryIndex+1, after.HistoryLen, after.CurrentEntry.ID), nil

	case "status":
		if len(args) < 1 {
			return "", fmt.Errorf("usage: status <entity>")
		}
		view, err := s.resolve(args[0])
		if err != nil {
			return "", err
		}
		st := s.Editor.ProcessingState(view.UUID)
		if st.Message != "" {
			return fmt.Sprintf("%s: %s (%s)", entityLabel(view), st.Phase, st.Message), nil
		}
		return fmt.Sprintf("%s: %s", entityLabel(view), st.Phase), nil

	case "undo":
		name, err := s.Editor.Undo(ctx)
		if err != nil {
			return "", err
		}
		if name == "" {
			return "nothing to undo", nil
		}
		return "undid " + name, nil

	case "redo":
		name, err := s.Editor.Redo(ctx)
		if err != nil {
			return "", err
		}
		if name == "" {
			return "nothing to redo", nil
		}
		return "redid " + name, nil

	case "save":
		if len(args) < 1 {
			return "", fmt.Errorf("usage: save <name>")
		}
		if err := s.Editor.SaveProject(ctx, args[0]); err != nil {
			return "", err
		}
		return fmt.Sprintf("saved project %q", args[0]), nil

	case "load":
		if len(args) < 1 {
			return "", fmt.Errorf("usage: load <name>")
		}
		report, err := s.Editor.LoadProject(ctx, args[0])
		if err != nil {
			return "", err
		}
		out := fmt.Sprintf("restored %d entities", report.Restored)
		if len(report.Warnings) > 0 {
			out += fmt.Sprintf(" (%d warnings)", len(report.Warnings))
		}
		return out, nil

	case "export":
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		data, err := json.MarshalIndent(s.Editor.Export(name), "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

// resolve accepts a full UUID, a UUID prefix or an exact entity name.
func (s *Session) resolve(key string) (domain.EntityView, error) {
	if id, err := uuid.Parse(key); err == nil {
		return s.Editor.Entity(id)
	}

	var match *domain.EntityView
	for _, v := range s.Editor.Entities() {
		if v.Name == key || strings.HasPrefix(v.UUID.String(), key) {
			if match != nil {
				return domain.EntityView{}, fmt.Errorf("%q is ambiguous", key)
			}
			vv := v
			match = &vv
		}
	}
	if match == nil {
		return domain.EntityView{}, fmt.Errorf("no entity matches %q", key)
	}
	return *match, nil
}

func (s *Session) renderEntityList() string {
	views := s.Editor.Entities()
	if len(views) == 0 {
		return "scene is empty"
	}
	var b strings.Builder
	for _, v := range views {
		name := v.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(&b, "%s  %-10s  %s", v.UUID.String()[:8], v.Kind, name)
		if v.HistoryLen > 0 {
			fmt.Fprintf(&b, "  [%d/%d]", v.HistoryIndex+1, v.HistoryLen)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderHistory(h *domain.GenerationHistory) string {
	if h.Len() == 0 {
		return "history empty"
	}
	var b strings.Builder
	for i, e := range h.Entries {
		marker := " "
		if i == h.CurrentIndex() {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s%2d. %-5s %s", marker, i+1, e.Kind, e.ID)
		if e.Prompt != "" {
			fmt.Fprintf(&b, " %q", e.Prompt)
		}
		if e.DerivedFrom != "" {
			fmt.Fprintf(&b, " from %s", e.DerivedFrom)
		}
		fmt.Fprintf(&b, " -> %s\n", e.FileURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func entityLabel(v domain.EntityView) string {
	short := v.UUID.String()[:8]
	if v.Name != "" {
		return fmt.Sprintf("%s (%s)", v.Name, short)
	}
	return short
}

func parseVec3(xs, ys, zs string) (domain.Vec3, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return domain.Vec3{}, fmt.Errorf("bad coordinate %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return domain.Vec3{}, fmt.Errorf("bad coordinate %q", ys)
	}
	z, err := strconv.ParseFloat(zs, 64)
	if err != nil {
		return domain.Vec3{}, fmt.Errorf("bad coordinate %q", zs)
	}
	return domain.Vec3{X: x, Y: y, Z: z}, nil
}
