package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/addissongs/song-service/internal/song"
)

// MongoRepo implements a MongoDB-backed repository for songs. IDs are
// caller-generated UUID strings stored as _id, so the unique index comes for
// free. Every call is bounded by the configured timeout.
type MongoRepo struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewMongoRepo(col *mongo.Collection, timeout time.Duration) *MongoRepo {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// ownerId is filtered on by the ownership gate and the seed tool
	idx := mongo.IndexModel{Keys: bson.D{{Key: "ownerId", Value: 1}}}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, _ = col.Indexes().CreateOne(ctx, idx)
	return &MongoRepo{col: col, timeout: timeout}
}

func (m *MongoRepo) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.timeout)
}

func (m *MongoRepo) Create(ctx context.Context, s *song.Song) error {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	_, err := m.col.InsertOne(ctx, s)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*song.Song, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	var s song.Song
	if err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (m *MongoRepo) List(ctx context.Context, q song.ListQuery) ([]*song.Song, int64, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()

	filter := q.Filter()
	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(q.Offset()).
		SetLimit(int64(q.Limit))
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []*song.Song{}
	for cur.Next(ctx) {
		var s song.Song
		if err := cur.Decode(&s); err != nil {
			return nil, 0, err
		}
		out = append(out, &s)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (m *MongoRepo) Replace(ctx context.Context, s *song.Song) error {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	res, err := m.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	return m.col.CountDocuments(ctx, bson.M{})
}

func (m *MongoRepo) GenreCounts(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := m.bound(ctx)
	defer cancel()
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$genre", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := m.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Genre string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Genre] = row.Count
	}
	return counts, cur.Err()
}
