// Package app assembles a running draft from configuration: it loads the
// catalog, restores the saved session and persists every change.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"auction-draft-mcp/internal/catalog"
	"auction-draft-mcp/internal/config"
	drafterr "auction-draft-mcp/internal/errors"
	"auction-draft-mcp/internal/fetch"
	"auction-draft-mcp/internal/importer"
	"auction-draft-mcp/internal/ledger"
	"auction-draft-mcp/internal/model"
	"auction-draft-mcp/internal/service"
	"auction-draft-mcp/internal/store"
)

type App struct {
	Service *service.Service
	Log     *logrus.Logger

	store     store.SessionStore
	mu        sync.Mutex // orders draft+save and reset+save
	createdAt time.Time
}

// Open loads everything cfg points at. The returned App owns the session
// store; call Close when done.
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	r, err := cfg.Rules()
	if err != nil {
		return nil, err
	}
	cat, err := LoadCatalog(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	l, err := ledger.New(r, ledger.WithID(cfg.Store.SessionID))
	if err != nil {
		st.Close()
		return nil, err
	}
	a := &App{Service: service.New(cat, l), Log: log, store: st}

	sess, err := st.Load(ctx, cfg.Store.SessionID)
	switch {
	case drafterr.Is(err, store.ErrSessionNotFound):
		log.WithField("session_id", cfg.Store.SessionID).Info("starting new draft session")
	case err != nil:
		st.Close()
		return nil, fmt.Errorf("load session %s: %w", cfg.Store.SessionID, err)
	default:
		if err := l.Replay(cat, sess.Picks); err != nil {
			st.Close()
			return nil, fmt.Errorf("restore session %s: %w", sess.ID, err)
		}
		a.createdAt = sess.CreatedAt
		log.WithFields(logrus.Fields{
			"session_id": sess.ID,
			"picks":      len(sess.Picks),
		}).Info("restored draft session")
	}
	return a, nil
}

// LoadCatalog reads the configured catalog source, downloading it first when
// the source is a URL.
func LoadCatalog(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*catalog.Catalog, error) {
	path := cfg.Catalog.Source
	if fetch.IsURL(path) {
		client := fetch.NewClient(store.NewJSONStore(cacheRoot(cfg)))
		local, err := client.FetchCatalog(ctx, path, cfg.Catalog.RefreshRemote)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		log.WithFields(logrus.Fields{"url": path, "cached": local}).Debug("catalog downloaded")
		path = local
	}
	cat, err := importer.LoadFile(path, cfg.Catalog.Sheet)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"source": cfg.Catalog.Source, "players": cat.Len()}).Info("catalog loaded")
	return cat, nil
}

func cacheRoot(cfg *config.Config) string {
	if cfg.Catalog.CacheDir != "" {
		return cfg.Catalog.CacheDir
	}
	sc := cfg.Store
	switch sc.Driver {
	case "json", "":
		return sc.Path
	case "sqlite":
		return filepath.Join(filepath.Dir(sc.Path), "cache")
	default:
		return filepath.Join(os.TempDir(), "auction-draft")
	}
}

// Draft records a pick and saves the session. When the save fails the pick
// stays in memory and the error is returned.
func (a *App) Draft(ctx context.Context, cmd service.DraftCommand) (model.DraftPick, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	fields := logrus.Fields{"team_id": cmd.TeamID, "player": cmd.PlayerName, "bid": cmd.Bid}
	pick, err := a.Service.DraftPlayer(cmd)
	if err != nil {
		a.Log.WithFields(fields).WithField("code", drafterr.Code(err)).Info("pick rejected")
		return model.DraftPick{}, err
	}
	a.Log.WithFields(fields).WithField("pick", pick.Pick).Info("pick recorded")
	if err := a.saveLocked(ctx); err != nil {
		return pick, err
	}
	return pick, nil
}

// Reset clears the ledger and deletes the persisted session.
func (a *App) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.Service.Ledger().ID()
	a.Service.Reset()
	a.createdAt = time.Time{}
	a.Log.WithField("session_id", id).Warn("draft reset")
	if err := a.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (a *App) saveLocked(ctx context.Context) error {
	sess := store.FromSnapshot(a.Service.Ledger().Snapshot(), a.createdAt)
	a.createdAt = sess.CreatedAt
	if err := a.store.Save(ctx, sess); err != nil {
		a.Log.WithError(err).WithField("session_id", sess.ID).Error("save session failed")
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (a *App) Close() error {
	return a.store.Close()
}
