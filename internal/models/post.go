package models

import "time"

// PostStatus is the publication state of a post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == PostDraft || s == PostPublished
}

// Post is a blog entry authored by a user.
type Post struct {
	ID          string     `bson:"_id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Status      PostStatus `bson:"status" json:"status"`
	CategoryID  string     `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	CreatedByID string     `bson:"createdById" json:"createdById"`
	UpdatedByID string     `bson:"updatedById,omitempty" json:"updatedById,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}
