// Package tokens holds the process-wide credential cache.
//
// The Store is tri-state: unloaded until the first Get reads the durable
// backends, then loaded with either a Pair or nil. Every Set and Clear bumps a
// generation counter; a durable read that observed an older generation never
// overwrites the cache.
package tokens

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/cinepass/internal/logging"
	"github.com/dmitrijs2005/cinepass/internal/metrics"
)

const loadKey = "load"

type Store struct {
	backends []Backend
	log      logging.Logger
	metrics  *metrics.Client

	mu     sync.Mutex
	loaded bool
	cached *Pair
	gen    uint64

	// writeMu keeps durable writes in the same order as cache mutations.
	writeMu sync.Mutex
	reads   singleflight.Group
}

// NewStore builds a Store over backends in priority order. m may be nil.
func NewStore(log logging.Logger, m *metrics.Client, backends ...Backend) *Store {
	return &Store{
		backends: backends,
		log:      log,
		metrics:  m,
	}
}

// Get returns a copy of the cached pair, loading it from the backends on first
// use. Concurrent first calls share a single load. Get never fails: a missing
// record or any backend error yields nil.
func (s *Store) Get(ctx context.Context) *Pair {
	s.mu.Lock()
	if s.loaded {
		p := clonePair(s.cached)
		s.mu.Unlock()
		return p
	}
	s.mu.Unlock()

	v, _, _ := s.reads.Do(loadKey, func() (any, error) {
		return s.load(context.WithoutCancel(ctx)), nil
	})
	p, _ := v.(*Pair)
	return clonePair(p)
}

// Set replaces the pair. The cache is updated before the durable write, so a
// Get issued while the write is running already sees p.
func (s *Store) Set(ctx context.Context, p Pair) {
	gen := s.mutate(&p)
	s.persist(context.WithoutCancel(ctx), gen, p)
}

// Clear drops the pair from the cache and erases every backend.
func (s *Store) Clear(ctx context.Context) {
	gen := s.mutate(nil)
	s.erase(context.WithoutCancel(ctx), gen)
}

// AccessToken returns the current access token, if any.
func (s *Store) AccessToken(ctx context.Context) (string, bool) {
	p := s.Get(ctx)
	if p == nil || p.AccessToken == "" {
		return "", false
	}
	return p.AccessToken, true
}

// RefreshToken returns the current refresh token, if any.
func (s *Store) RefreshToken(ctx context.Context) (string, bool) {
	p := s.Get(ctx)
	if p == nil || p.RefreshToken == "" {
		return "", false
	}
	return p.RefreshToken, true
}

func (s *Store) SetTokens(ctx context.Context, accessToken, refreshToken string) {
	s.Set(ctx, Pair{AccessToken: accessToken, RefreshToken: refreshToken})
}

func (s *Store) ClearTokens(ctx context.Context) {
	s.Clear(ctx)
}

func (s *Store) mutate(p *Pair) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.loaded = true
	s.cached = clonePair(p)
	return s.gen
}

func (s *Store) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen != gen
}

func (s *Store) load(ctx context.Context) *Pair {
	s.mu.Lock()
	if s.loaded {
		p := clonePair(s.cached)
		s.mu.Unlock()
		return p
	}
	gen := s.gen
	s.mu.Unlock()

	var found *Pair
	source := "none"
	for _, b := range s.backends {
		p, err := readBackend(ctx, b)
		if err != nil {
			s.log.Warn(ctx, "credential read failed", "backend", b.Name(), "error", err)
			continue
		}
		if p != nil && !p.Empty() {
			found, source = p, b.Name()
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		// a Set or Clear ran while we were reading; its value wins
		s.log.Debug(ctx, "discarding superseded credential read", "generation", gen)
		return clonePair(s.cached)
	}
	s.loaded = true
	s.cached = found
	s.metrics.StoreLoaded(source)
	return clonePair(found)
}

func (s *Store) persist(ctx context.Context, gen uint64, p Pair) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.superseded(gen) {
		return
	}

	for i, b := range s.backends {
		err := guard(b.Name(), func() error { return b.Write(ctx, p) })
		s.metrics.StoreWritten(b.Name(), err == nil)
		if err != nil {
			s.log.Warn(ctx, "credential write failed", "backend", b.Name(), "error", err)
			continue
		}

		// a stale record left in another backend would shadow this one after restart
		for j, other := range s.backends {
			if j == i {
				continue
			}
			if err := guard(other.Name(), func() error { return other.Erase(ctx) }); err != nil {
				s.log.Debug(ctx, "credential erase failed", "backend", other.Name(), "error", err)
			}
		}
		return
	}

	s.log.Error(ctx, "credentials kept in memory only: no backend accepted the write")
}

func (s *Store) erase(ctx context.Context, gen uint64) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.superseded(gen) {
		return
	}

	for _, b := range s.backends {
		if err := guard(b.Name(), func() error { return b.Erase(ctx) }); err != nil {
			s.log.Warn(ctx, "credential erase failed", "backend", b.Name(), "error", err)
		}
	}
}

func readBackend(ctx context.Context, b Backend) (p *Pair, err error) {
	err = guard(b.Name(), func() error {
		var rerr error
		p, rerr = b.Read(ctx)
		return rerr
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// guard runs fn and turns a panic into an error.
func guard(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend %s panicked: %v", name, r)
		}
	}()
	return fn()
}

func clonePair(p *Pair) *Pair {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
