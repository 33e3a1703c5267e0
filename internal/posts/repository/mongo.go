package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for posts.
// Posts are keyed by a UUID string in _id.
type MongoRepo struct {
	col *mongo.Collection
}

// NewMongoRepo ensures the listing and author indexes.
func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdById", Value: 1}}},
	})
	if err != nil {
		return nil, err
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) Create(ctx context.Context, p *models.Post) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := m.col.InsertOne(ctx, p)
	return err
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*models.Post, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Post{}
	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (m *MongoRepo) Update(ctx context.Context, p *models.Post) error {
	p.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":       p.Title,
		"description": p.Description,
		"status":      p.Status,
		"categoryId":  p.CategoryID,
		"updatedById": p.UpdatedByID,
		"updatedAt":   p.UpdatedAt,
	}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res, err := m.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
