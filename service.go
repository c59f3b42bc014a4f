package worldcache

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Options configure a Service. Store and Strategy are required.
type Options struct {
	Store    Store
	Strategy Strategy

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
	Rand   Rand   // if nil, math/rand/v2 top-level functions are used
}

// Service is the request façade over one Strategy. Cache operations fail with
// ErrNotWarmed until Warm has succeeded.
type Service struct {
	store Store
	strat Strategy
	log   Logger
	hooks Hooks
	rand  Rand

	warmOnce sync.Once
	warmErr  error
	ready    atomic.Bool
}

func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("worldcache: store is required")
	}
	if opts.Strategy == nil {
		return nil, fmt.Errorf("worldcache: strategy is required")
	}
	return &Service{
		store: opts.Store,
		strat: opts.Strategy,
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
		rand:  coalesce[Rand](opts.Rand, runtimeRand{}),
	}, nil
}

func (s *Service) Kind() Kind { return s.strat.Kind() }

// Ready reports whether Warm has completed successfully.
func (s *Service) Ready() bool { return s.ready.Load() }

// Warm projects every World row into the cache. It runs at most once per
// Service: concurrent and later callers block until the first pass finishes
// and all observe its result. The first caller's ctx governs the pass.
// A failure is returned as *InitError and is not retried.
func (s *Service) Warm(ctx context.Context) error {
	s.warmOnce.Do(func() {
		s.warmErr = s.warm(ctx)
	})
	return s.warmErr
}

func (s *Service) warm(ctx context.Context) error {
	start := time.Now()
	rows, err := s.store.ListWorlds(ctx)
	if err != nil {
		err = &InitError{Op: "list worlds", Err: err}
		s.log.Error("warm failed", Fields{"err": err})
		s.hooks.WarmFailed(err)
		return err
	}
	if err := s.strat.Warm(ctx, rows); err != nil {
		err = &InitError{Op: "warm " + s.strat.Kind().String() + " cache", Err: err}
		s.log.Error("warm failed", Fields{"err": err, "rows": len(rows)})
		s.hooks.WarmFailed(err)
		return err
	}
	took := time.Since(start)
	s.ready.Store(true)
	s.log.Info("cache warmed", Fields{"strategy": s.strat.Kind().String(), "rows": len(rows), "took": took})
	s.hooks.WarmCompleted(len(rows), took)
	return nil
}

// Read resolves one id through the cache.
func (s *Service) Read(ctx context.Context, id int) (World, error) {
	if !ValidID(id) {
		return World{}, fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	if !s.Ready() {
		return World{}, ErrNotWarmed
	}
	return s.strat.Read(ctx, id)
}

// ReadBatch draws ClampQueries(n) ids uniformly with replacement and resolves
// each through the cache. Results are in draw order; the first error aborts.
func (s *Service) ReadBatch(ctx context.Context, n int) ([]World, error) {
	if !s.Ready() {
		return nil, ErrNotWarmed
	}
	n = ClampQueries(n)
	out := make([]World, 0, n)
	for range n {
		w, err := s.strat.Read(ctx, randomID(s.rand))
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// MutateBatch draws ClampQueries(n) ids and, for each, a new RandomNumber in
// [1, WorldCount], writing it through the strategy. The datastore is not
// touched. The returned pairs are in draw order.
func (s *Service) MutateBatch(ctx context.Context, n int) ([]World, error) {
	if !s.Ready() {
		return nil, ErrNotWarmed
	}
	n = ClampQueries(n)
	out := make([]World, 0, n)
	for range n {
		id := randomID(s.rand)
		w := World{ID: id, RandomNumber: int32(randomID(s.rand))}
		if err := s.strat.Write(ctx, w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// RandomWorld reads one random row straight from the datastore.
func (s *Service) RandomWorld(ctx context.Context) (World, error) {
	return s.store.GetWorld(ctx, randomID(s.rand))
}

// QueryBatch reads ClampQueries(n) random rows straight from the datastore.
func (s *Service) QueryBatch(ctx context.Context, n int) ([]World, error) {
	n = ClampQueries(n)
	out := make([]World, 0, n)
	for range n {
		w, err := s.store.GetWorld(ctx, randomID(s.rand))
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// Fortunes lists every fortune plus the synthetic one (ID 0), stably sorted
// by Message in byte order.
func (s *Service) Fortunes(ctx context.Context) ([]Fortune, error) {
	fs, err := s.store.ListFortunes(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateFortunes(fs), nil
}

// AggregateFortunes returns a sorted copy of fs with the synthetic fortune added.
func AggregateFortunes(fs []Fortune) []Fortune {
	out := make([]Fortune, 0, len(fs)+1)
	out = append(out, fs...)
	out = append(out, Fortune{ID: 0, Message: SyntheticFortuneMessage})
	slices.SortStableFunc(out, func(a, b Fortune) int {
		return strings.Compare(a.Message, b.Message)
	})
	return out
}

// Close closes the strategy's cache client. The Store is owned by the caller.
func (s *Service) Close(ctx context.Context) error {
	return s.strat.Close(ctx)
}
