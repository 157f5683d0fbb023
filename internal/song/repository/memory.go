package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/addissongs/song-service/internal/song"
)

// MemoryRepo is an in-memory repository used for unit tests and for running
// the service without a database. Semantics mirror the Mongo implementation:
// insertion-ordered listing, substring search, full-document replace.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []string
	store map[string]*song.Song
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*song.Song)}
}

func clone(s *song.Song) *song.Song {
	c := *s
	if s.Year != nil {
		y := *s.Year
		c.Year = &y
	}
	return &c
}

func matches(s *song.Song, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(s.Title), needle) ||
		strings.Contains(strings.ToLower(s.Artist), needle) ||
		strings.Contains(strings.ToLower(s.Album), needle)
}

func (m *MemoryRepo) Create(ctx context.Context, s *song.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[s.ID] = clone(s)
	m.order = append(m.order, s.ID)
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*song.Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.store[id]; ok {
		return clone(s), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context, q song.ListQuery) ([]*song.Song, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []*song.Song{}
	for _, id := range m.order {
		if s, ok := m.store[id]; ok && matches(s, q.Search) {
			matched = append(matched, s)
		}
	}
	total := int64(len(matched))

	start := int(q.Offset())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]*song.Song, 0, end-start)
	for _, s := range matched[start:end] {
		out = append(out, clone(s))
	}
	return out, total, nil
}

func (m *MemoryRepo) Replace(ctx context.Context, s *song.Song) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[s.ID]; !ok {
		return ErrNotFound
	}
	m.store[s.ID] = clone(s)
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryRepo) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.store)), nil
}

func (m *MemoryRepo) GenreCounts(ctx context.Context) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int64{}
	for _, s := range m.store {
		counts[s.Genre]++
	}
	return counts, nil
}
