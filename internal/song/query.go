package song

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultLimit matches the page size the original catalog API shipped with.
	DefaultLimit = 5
	// MaxLimit caps a single page. Requests above it are clamped, closing the
	// unbounded-page resource exhaustion hole of the first backend version.
	MaxLimit = 100
)

// ListQuery describes a paginated, optionally filtered catalog listing.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Normalize applies defaults and bounds: page >= 1, 1 <= limit <= MaxLimit.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// Offset returns the number of records to skip for the requested page.
func (q ListQuery) Offset() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

// Filter builds the Mongo filter for the query: a case-insensitive substring
// match over title, artist and album when search is set, otherwise match-all.
// The search term is quoted so regex metacharacters match literally.
func (q ListQuery) Filter() bson.M {
	if q.Search == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": re},
		bson.M{"artist": re},
		bson.M{"album": re},
	}}
}
