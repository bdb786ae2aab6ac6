package main

import (
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith"
	"github.com/scenesmith/scenesmith/internal/adapters/file"
	"github.com/scenesmith/scenesmith/internal/adapters/generation"
	"github.com/scenesmith/scenesmith/internal/adapters/generation/openai"
	"github.com/scenesmith/scenesmith/internal/adapters/generation/rest"
	loamcatalog "github.com/scenesmith/scenesmith/internal/adapters/loam"
	redisstore "github.com/scenesmith/scenesmith/internal/adapters/redis"
	"github.com/scenesmith/scenesmith/internal/config"
	"github.com/scenesmith/scenesmith/internal/logging"
	"github.com/scenesmith/scenesmith/pkg/adapters/memory"
	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/observability"
	"github.com/scenesmith/scenesmith/pkg/persistence/middleware"
	"github.com/scenesmith/scenesmith/pkg/ports"
	"github.com/scenesmith/scenesmith/pkg/session"
)

// loadConfig reads the file named by the persistent --config flag. A missing
// file falls back to defaults, so commands work out of the box.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// createLogger configures the command logger. Verbose mode writes debug
// lines to stderr so stdout stays clean for editor output.
func createLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		return logging.NewLogger(true)
	}
	return logging.NewNop()
}

// createEditor assembles an editor from config with standard CLI
// conventions: scene in memory, the given project store, generation and
// catalog per config, and any extra lifecycle hooks joined in.
func createEditor(cfg *config.Config, store ports.ProjectStore, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*scenesmith.Editor, error) {
	opts := []scenesmith.Option{
		scenesmith.WithLogger(logger),
		scenesmith.WithCommandLimit(cfg.Editor.CommandDepth),
		scenesmith.WithStore(store),
	}

	if cfg.Catalog.Root != "" {
		catalog, err := loamcatalog.Open(cfg.Catalog.Root)
		if err != nil {
			return nil, fmt.Errorf("opening preset catalog: %w", err)
		}
		opts = append(opts, scenesmith.WithCatalog(catalog))
	}

	if len(hooks) > 0 {
		opts = append(opts, scenesmith.WithLifecycleHooks(observability.Join(hooks...)))
	}

	return scenesmith.New(memory.NewScene(), createGeneration(cfg), opts...)
}

// createStore selects the project store backend, wrapping it in encryption
// middleware when an at-rest key is configured. The Redis backend also
// yields a distributed locker sharing the store's client; other backends
// return a nil locker.
func createStore(cfg *config.Config) (ports.ProjectStore, ports.DistributedLocker, error) {
	var store ports.ProjectStore
	var locker ports.DistributedLocker

	switch cfg.Store.Backend {
	case "memory", "":
		store = memory.NewStore()
	case "file":
		store = file.New(cfg.Store.Path)
	case "redis":
		r := cfg.Store.Redis
		client := goredis.NewClient(&goredis.Options{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
		})
		var opts []redisstore.Option
		if r.Prefix != "" {
			opts = append(opts, redisstore.WithPrefix(r.Prefix))
		}
		if r.TTL.Std() > 0 {
			opts = append(opts, redisstore.WithTTL(r.TTL.Std()))
		}
		store = redisstore.NewFromClient(client, opts...)
		locker = redisstore.NewLocker(client, r.Prefix)
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	key, err := cfg.Store.EncryptionKey()
	if err != nil {
		return nil, nil, err
	}
	if key != nil {
		store = middleware.Chain(middleware.NewEncryption(key))(store)
	}
	return store, locker, nil
}

// createManager wraps the store with per-project checkout locking. Server
// surfaces hand the manager to the editor as its store, so every save and
// load runs under the project lock; the edit command uses it to hold a
// lease for the whole session.
func createManager(store ports.ProjectStore, locker ports.DistributedLocker, logger *slog.Logger) *session.Manager {
	opts := []session.Option{session.WithLogger(logger)}
	if locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}
	return session.NewManager(store, opts...)
}

// createGeneration selects the generation provider. With provider "none"
// the editor runs without one and reports generation as unavailable per
// call, so shape and light work stays possible offline.
func createGeneration(cfg *config.Config) ports.GenerationClient {
	g := cfg.Generation
	switch g.Provider {
	case "openai":
		var opts []openai.Option
		if g.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(g.BaseURL))
		}
		images := openai.New(g.APIKey(), opts...)
		if g.ModelBaseURL != "" {
			// The Images API has no 3D output; pair it with a REST
			// backend for the model half.
			return generation.Composite{
				Image: images,
				Model: rest.New(g.ModelBaseURL, restOptions(g)...),
			}
		}
		return images
	case "http":
		if g.ModelBaseURL != "" && g.ModelBaseURL != g.BaseURL {
			return generation.Composite{
				Image: rest.New(g.BaseURL, restOptions(g)...),
				Model: rest.New(g.ModelBaseURL, restOptions(g)...),
			}
		}
		return rest.New(g.BaseURL, restOptions(g)...)
	default:
		// "none" or empty
		return nil
	}
}

func restOptions(g config.Generation) []rest.Option {
	if key := g.APIKey(); key != "" {
		return []rest.Option{rest.WithToken(key)}
	}
	return nil
}
