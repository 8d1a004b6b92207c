package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/famitree/internal/application/handlers"
	"github.com/ersonp/famitree/internal/domain/ports"
	"github.com/ersonp/famitree/internal/domain/services"
	"github.com/ersonp/famitree/internal/infrastructure/auth"
	"github.com/ersonp/famitree/internal/infrastructure/config"
	embedder "github.com/ersonp/famitree/internal/infrastructure/embedder/openai"
	"github.com/ersonp/famitree/internal/infrastructure/filestore"
	"github.com/ersonp/famitree/internal/infrastructure/metrics"
	"github.com/ersonp/famitree/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/famitree/internal/infrastructure/vectordb/qdrant"
)

var (
	errReadOnly         = errors.New("current user may not edit the tree (set user.id in config or pass --user with an admin from users.yaml)")
	errHistoryNeedsSQL  = errors.New("history is only kept by the sqlite storage backend")
	errNoBranchSelected = errors.New("no branch root given and the current user has no default_branch")
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - the store and repositories are internal.
type Deps struct {
	Config              *config.Config
	Users               *config.UsersConfig
	Auth                *auth.Authorizer
	PersonHandler       *handlers.PersonHandler
	RelationshipHandler *handlers.RelationshipHandler
	TreeHandler         *handlers.TreeHandler
	ReminderHandler     *handlers.ReminderHandler
	BackupHandler       *handlers.BackupHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	store        *services.FamilyStore
	relationalDB *sqlite.Repository // nil for the file backend
	files        *filestore.Store   // nil for the sqlite backend
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It saves pending changes and releases the storage afterwards.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withEditor is withDeps for commands that change the tree. It fails early
// when the current user could not edit anyway.
func withEditor(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		if err := d.requireEditor(ctx); err != nil {
			return err
		}
		return fn(&d.Deps)
	})
}

func (d *Deps) requireEditor(ctx context.Context) error {
	if u, ok := d.Auth.CurrentUser(ctx); !ok || !u.Privileged {
		return errReadOnly
	}
	return nil
}

// withInternalDeps provides access to all dependencies including low-level components.
func withInternalDeps(ctx context.Context, fn func(*internalDeps) error) (err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	users, err := config.LoadUsers(cwd)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}

	if globalUser != "" {
		cfg.User = config.UserConfig{ID: globalUser}
	}

	logger := slog.Default()
	m := metrics.New()
	opts := []services.StoreOption{
		services.WithLogger(logger),
		services.WithMetrics(m),
	}

	d := &internalDeps{metrics: m, logger: logger}

	var persistence ports.Persistence
	switch cfg.Storage.Backend {
	case config.BackendFile:
		d.files = filestore.New(cfg.StoragePath(cwd), filestore.WithLogger(logger))
		persistence = d.files
	default:
		repo, err := sqlite.NewRepository(cfg.SQLite(cwd))
		if err != nil {
			return fmt.Errorf("creating sqlite repository: %w", err)
		}
		defer repo.Close()

		if err := repo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensuring sqlite schema: %w", err)
		}
		d.relationalDB = repo
		persistence = repo
		opts = append(opts, services.WithAuditLog(repo))
	}

	authz := auth.FromConfig(cfg, users)
	store := services.NewFamilyStore(persistence, authz, opts...)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
		defer cancel()
		if cerr := store.Close(closeCtx); cerr != nil && err == nil {
			err = fmt.Errorf("closing store: %w", cerr)
		}
	}()

	if err := store.Load(ctx); err != nil {
		return err
	}

	d.store = store
	d.Deps = Deps{
		Config:              cfg,
		Users:               users,
		Auth:                authz,
		PersonHandler:       handlers.NewPersonHandler(store),
		RelationshipHandler: handlers.NewRelationshipHandler(store),
		TreeHandler:         handlers.NewTreeHandler(store),
		ReminderHandler:     handlers.NewReminderHandler(store, cfg.Reminders.Limit),
		BackupHandler:       handlers.NewBackupHandler(services.NewBackupService(store)),
	}

	if err := fn(d); err != nil {
		return err
	}

	// Surface save errors here; the background flusher only logs them.
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeCloseTimeout)
	defer cancel()
	return store.Flush(flushCtx)
}

// withHistoryHandler provides the version history and audit log.
func withHistoryHandler(ctx context.Context, fn func(*handlers.HistoryHandler) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		if d.relationalDB == nil {
			return errHistoryNeedsSQL
		}
		return fn(handlers.NewHistoryHandler(d.relationalDB))
	})
}

// withSearchHandler connects to qdrant and the embedding provider.
func withSearchHandler(ctx context.Context, fn func(*handlers.SearchHandler) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		repo, err := qdrant.NewRepository(d.Config.Qdrant)
		if err != nil {
			return fmt.Errorf("creating qdrant repository: %w", err)
		}
		defer repo.Close()

		emb, err := embedder.NewEmbedder(d.Config.Embedder)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		searchService := services.NewSearchService(emb, repo, d.store)
		return fn(handlers.NewSearchHandler(searchService, repo))
	})
}

// branchRoot returns explicit, or the current user's default branch.
func (d *Deps) branchRoot(ctx context.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	u, ok := d.Auth.CurrentUser(ctx)
	if !ok {
		return ""
	}
	return d.Auth.DefaultBranch(u.ID)
}
