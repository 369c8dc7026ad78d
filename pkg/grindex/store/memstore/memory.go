// Package memstore provides an in-memory Store used in tests and for dry
// runs that should not touch a database file.
package memstore

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/brewkit/grindex/pkg/grindex/store"
)

type memStore struct {
	mu sync.Mutex

	nextGrinderID int64
	nextMethodID  int64

	grinders map[int64]store.Grinder
	// methods keyed by method ID; lookups scan, the data sets are small
	methods map[int64]store.BrewMethod
}

// New creates an empty in-memory store.
func New() store.Store {
	return &memStore{
		nextGrinderID: 1,
		nextMethodID:  1,
		grinders:      make(map[int64]store.Grinder),
		methods:       make(map[int64]store.BrewMethod),
	}
}

func (s *memStore) Close() error {
	return nil
}

func (s *memStore) UpsertGrinder(_ context.Context, g store.Grinder) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.grinders {
		if existing.Name == g.Name {
			g.ID = id
			s.grinders[id] = g
			return id, nil
		}
	}

	g.ID = s.nextGrinderID
	s.nextGrinderID++
	s.grinders[g.ID] = g
	return g.ID, nil
}

func (s *memStore) GetGrinder(_ context.Context, id int64) (store.Grinder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.grinders[id]
	if !ok {
		return store.Grinder{}, sql.ErrNoRows
	}
	return g, nil
}

func (s *memStore) FindGrinder(_ context.Context, nameSubstring string) (store.Grinder, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(nameSubstring)
	var (
		best  store.Grinder
		found bool
	)
	for _, g := range s.grinders {
		if !strings.Contains(strings.ToLower(g.Name), needle) {
			continue
		}
		if !found || g.Name < best.Name {
			best = g
			found = true
		}
	}
	return best, found, nil
}

func (s *memStore) ListGrinders(_ context.Context) ([]store.Grinder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grinders := make([]store.Grinder, 0, len(s.grinders))
	for _, g := range s.grinders {
		grinders = append(grinders, g)
	}
	sort.Slice(grinders, func(i, j int) bool {
		return grinders[i].Name < grinders[j].Name
	})
	return grinders, nil
}

func (s *memStore) DeleteGrinder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.grinders, id)
	for mid, m := range s.methods {
		if m.GrinderID == id {
			delete(s.methods, mid)
		}
	}
	return nil
}

func (s *memStore) UpsertBrewMethod(_ context.Context, m store.BrewMethod) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.SettingFormat == "" {
		m.SettingFormat = "simple"
	}

	for id, existing := range s.methods {
		if existing.GrinderID == m.GrinderID && existing.MethodName == m.MethodName {
			m.ID = id
			s.methods[id] = m
			return id, nil
		}
	}

	m.ID = s.nextMethodID
	s.nextMethodID++
	s.methods[m.ID] = m
	return m.ID, nil
}

func (s *memStore) BrewMethodsOf(_ context.Context, grinderID int64) ([]store.BrewMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var methods []store.BrewMethod
	for _, m := range s.methods {
		if m.GrinderID == grinderID {
			methods = append(methods, m)
		}
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i].MethodName < methods[j].MethodName
	})
	return methods, nil
}
