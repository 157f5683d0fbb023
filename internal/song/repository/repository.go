package repository

import (
	"context"
	"errors"

	"github.com/addissongs/song-service/internal/song"
)

// ErrNotFound reports that no song exists at the requested identifier.
var ErrNotFound = errors.New("song not found")

// Repository defines persistence operations for songs. Implementations are
// responsible for bounding each call with their own timeout.
type Repository interface {
	Create(ctx context.Context, s *song.Song) error
	Get(ctx context.Context, id string) (*song.Song, error)
	// List returns one page of songs matching the query plus the total number
	// of matches for the same filter.
	List(ctx context.Context, q song.ListQuery) ([]*song.Song, int64, error)
	// Replace overwrites the stored record having s.ID with s.
	Replace(ctx context.Context, s *song.Song) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	GenreCounts(ctx context.Context) (map[string]int64, error)
}
