package sessions

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository provides session persistence operations keyed by token digest
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByHash(ctx context.Context, hash string) (*Session, error)
	DeleteByHash(ctx context.Context, hash string) error
	// DeleteBySub removes every session of one user and reports how many went.
	DeleteBySub(ctx context.Context, sub string) (int64, error)
}

// MongoRepository implements Repository using a Mongo collection
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates the repository and its indexes. Expired
// sessions are removed by a TTL index on expiresAt.
func NewMongoRepository(ctx context.Context, col *mongo.Collection) (*MongoRepository, error) {
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tokenHash", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sub", Value: 1}}},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	if err != nil {
		return nil, err
	}
	return &MongoRepository{col: col}, nil
}

func (r *MongoRepository) Create(ctx context.Context, s *Session) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = now.Add(7 * 24 * time.Hour)
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *MongoRepository) GetByHash(ctx context.Context, hash string) (*Session, error) {
	var s Session
	if err := r.col.FindOne(ctx, bson.M{"tokenHash": hash}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *MongoRepository) DeleteByHash(ctx context.Context, hash string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"tokenHash": hash})
	return err
}

func (r *MongoRepository) DeleteBySub(ctx context.Context, sub string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"sub": sub})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
