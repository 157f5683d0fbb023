package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/addissongs/song-service/internal/identity"
	"github.com/addissongs/song-service/internal/song"
	"github.com/addissongs/song-service/internal/song/repository"
)

var (
	// ErrNotFound re-exported so handlers do not import the repository package.
	ErrNotFound = repository.ErrNotFound
	// ErrValidation marks client payload errors (missing title/artist).
	ErrValidation = errors.New("validation failed")
	// ErrForbidden marks ownership/role failures on mutations.
	ErrForbidden = identity.ErrForbidden
)

// Page is one listing result page.
type Page struct {
	Items      []*song.Song `json:"data"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	Total      int64        `json:"total"`
	TotalPages int          `json:"totalPages"`
}

// CatalogStats summarizes the catalog for the admin dashboard.
type CatalogStats struct {
	TotalSongs   int64            `json:"totalSongs"`
	SongsByGenre map[string]int64 `json:"songsByGenre"`
}

// Service holds the catalog business rules: validation, ownership gating and
// the mapping from inputs to persisted records. Each operation is a single
// round trip to the repository (plus the ownership read on mutations).
type Service struct {
	repo repository.Repository
}

func NewService(r repository.Repository) *Service {
	return &Service{repo: r}
}

// List returns one page of songs matching the query.
func (s *Service) List(ctx context.Context, q song.ListQuery) (*Page, error) {
	q = q.Normalize()
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return &Page{
		Items:      items,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*song.Song, error) {
	return s.repo.Get(ctx, id)
}

// Create validates the input and persists a new song owned by the caller.
// Anonymous callers get the sentinel owner.
func (s *Service) Create(ctx context.Context, in song.Input, caller *identity.Identity) (*song.Song, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	in.Normalize()

	ownerID := identity.SentinelOwner
	ownerName := ""
	if caller != nil {
		ownerID = caller.UserID
		ownerName = caller.Name
	}

	now := time.Now().UTC()
	rec := &song.Song{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Artist:    in.Artist,
		Album:     in.Album,
		Year:      in.Year,
		Genre:     in.Genre,
		Duration:  in.Duration,
		OwnerID:   ownerID,
		OwnerName: ownerName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create song: %w", err)
	}
	return rec, nil
}

// Update replaces the stored song. Optional fields omitted from the input
// reset to their defaults (PUT semantics, so repeating the call is
// idempotent). Validation runs before any persistence access; the ownership
// gate runs against the stored record before the write. ID and owner fields
// never change.
func (s *Service) Update(ctx context.Context, id string, in song.Input, caller *identity.Identity) (*song.Song, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	in.Normalize()

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := identity.AuthorizeOwnerOrAdmin(caller, current.OwnerID); err != nil {
		return nil, err
	}

	current.Title = in.Title
	current.Artist = in.Artist
	current.Album = in.Album
	current.Year = in.Year
	current.Genre = in.Genre
	current.Duration = in.Duration
	current.UpdatedAt = time.Now().UTC()

	if err := s.repo.Replace(ctx, current); err != nil {
		return nil, fmt.Errorf("update song: %w", err)
	}
	return current, nil
}

// Delete removes the song after the same ownership gate as Update.
func (s *Service) Delete(ctx context.Context, id string, caller *identity.Identity) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := identity.AuthorizeOwnerOrAdmin(caller, current.OwnerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Authorize reports whether the caller may mutate the song with the given
// id. Used by routes that touch song sub-resources (cover art).
func (s *Service) Authorize(ctx context.Context, id string, caller *identity.Identity) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return identity.AuthorizeOwnerOrAdmin(caller, current.OwnerID)
}

// Stats aggregates catalog totals.
func (s *Service) Stats(ctx context.Context) (*CatalogStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count songs: %w", err)
	}
	byGenre, err := s.repo.GenreCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("genre counts: %w", err)
	}
	return &CatalogStats{TotalSongs: total, SongsByGenre: byGenre}, nil
}
