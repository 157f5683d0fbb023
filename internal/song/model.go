package song

import (
	"errors"
	"strings"
	"time"
)

// ErrTitleArtistRequired reports a create/update payload missing its
// required fields.
var ErrTitleArtistRequired = errors.New("title and artist are required")

// Song is the persistent catalog record. ID and OwnerID are fixed at
// creation and never mutated afterwards.
type Song struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Artist    string    `json:"artist" bson:"artist"`
	Album     string    `json:"album" bson:"album"`
	Year      *int      `json:"year" bson:"year,omitempty"`
	Genre     string    `json:"genre" bson:"genre"`
	Duration  string    `json:"duration" bson:"duration"`
	OwnerID   string    `json:"ownerId" bson:"ownerId"`
	OwnerName string    `json:"ownerName,omitempty" bson:"ownerName"`
	IsSeeded  bool      `json:"isSeeded,omitempty" bson:"isSeeded"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Input carries the caller-editable fields of a song. Update applies it with
// full-replace semantics: optional fields omitted from the payload reset to
// their defaults.
type Input struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Year     *int   `json:"year"`
	Genre    string `json:"genre"`
	Duration string `json:"duration"`
}

// Validate checks the required fields. Whitespace-only values count as
// missing.
func (in *Input) Validate() error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Artist) == "" {
		return ErrTitleArtistRequired
	}
	return nil
}

// Normalize trims the text fields in place.
func (in *Input) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Artist = strings.TrimSpace(in.Artist)
	in.Album = strings.TrimSpace(in.Album)
	in.Genre = strings.TrimSpace(in.Genre)
	in.Duration = strings.TrimSpace(in.Duration)
}
