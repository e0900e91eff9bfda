package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/abhisek/bloomclimb/internal/cache"
	"github.com/abhisek/bloomclimb/internal/config"
	"github.com/abhisek/bloomclimb/internal/engine"
	"github.com/abhisek/bloomclimb/internal/session"
	"github.com/abhisek/bloomclimb/internal/store"
)

// services bundles the store and the optional session cache for one command.
type services struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	sessions store.SessionRepo
	events   store.EventRepo

	redis redis.UniversalClient
	cache *cache.Cache // nil when no cache is configured or reachable
}

func (c *cli) open(ctx context.Context) (*services, error) {
	path, err := c.cfg.ResolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(path, store.WithLogger(c.log))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	svc := &services{
		cfg:      c.cfg,
		log:      c.log,
		store:    st,
		sessions: st.SessionRepo(),
		events:   st.EventRepo(),
	}

	if rc := c.cfg.Redis; rc.Enabled() {
		client, err := cache.Dial(ctx, rc.Addr, rc.Password, rc.DB)
		if err != nil {
			c.log.Warn("session cache disabled", zap.Error(err))
			return svc, nil
		}
		ch, err := cache.New(client, rc.TTL)
		if err != nil {
			client.Close()
			c.log.Warn("session cache disabled", zap.Error(err))
			return svc, nil
		}
		svc.redis = client
		svc.cache = ch
	}
	return svc, nil
}

func (s *services) Close() error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Warn("close redis", zap.Error(err))
		}
	}
	return s.store.Close()
}

// loadTracker rebuilds the tracker of a stored session, reading through the
// cache when one is available.
func (s *services) loadTracker(ctx context.Context, id string) (*session.Tracker, error) {
	tr := session.New(session.WithID(id), session.WithRules(s.cfg.Rules))

	if s.cache != nil {
		rec, err := s.cache.Get(ctx, id)
		switch {
		case err == nil:
			if err := tr.LoadState(rec); err == nil {
				s.log.Debug("session cache hit", zap.String("session", id))
				return tr, nil
			}
			s.log.Warn("discarding cached session", zap.String("session", id), zap.Error(err))
		case errors.Is(err, cache.ErrMiss):
			s.log.Debug("session cache miss", zap.String("session", id))
		default:
			s.log.Warn("session cache read failed", zap.String("session", id), zap.Error(err))
		}
	}

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tr.LoadState(sess.State); err != nil {
		return nil, err
	}
	s.remember(ctx, tr)
	return tr, nil
}

// saveTracker persists the tracker state and refreshes the cache.
func (s *services) saveTracker(ctx context.Context, tr *session.Tracker) error {
	sess := &store.Session{ID: tr.ID(), State: tr.ExportState()}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return err
	}
	s.remember(ctx, tr)
	return nil
}

// recordAnswer stores the answer event and the tracker state together, then
// refreshes the cache.
func (s *services) recordAnswer(ctx context.Context, tr *session.Tracker, entry engine.HistoryEntry) (int64, error) {
	sess := &store.Session{ID: tr.ID(), State: tr.ExportState()}
	seq, err := s.store.RecordAnswer(ctx, sess, store.NewAnswerEventData(tr.ID(), entry))
	if err != nil {
		return 0, err
	}
	s.remember(ctx, tr)
	return seq, nil
}

func (s *services) remember(ctx context.Context, tr *session.Tracker) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, tr.ID(), tr.ExportState()); err != nil {
		s.log.Warn("session cache write failed", zap.String("session", tr.ID()), zap.Error(err))
	}
}

func (s *services) forget(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn("session cache delete failed", zap.String("session", id), zap.Error(err))
	}
}
