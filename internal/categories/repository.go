package categories

import (
	"context"
	"errors"
	"time"

	"github.com/quillpress/quillpress/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository persists categories. Lookups return (nil, nil) when absent.
type Repository interface {
	List(ctx context.Context) ([]*models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository ensures the unique slug index.
func NewMongoRepository(ctx context.Context, col *mongo.Collection) (*MongoRepository, error) {
	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &MongoRepository{col: col}, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*models.Category, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []*models.Category{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.Category, error) {
	var c models.Category
	if err := r.col.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoRepository) Create(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *MongoRepository) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": bson.M{
		"title":     c.Title,
		"slug":      c.Slug,
		"updatedAt": c.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlug
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *MongoRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
