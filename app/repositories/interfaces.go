package repositories

import (
	"context"

	"postboard/app/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int) error
}

// SessionRepository stores the single active session per user
type SessionRepository interface {
	Put(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, userID int) (*models.Session, error)
	Delete(ctx context.Context, userID int) error
}

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	// Delete removes the post with its comments, likes and ratings in one step.
	Delete(ctx context.Context, id int) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID int) ([]*models.Comment, error)
	Delete(ctx context.Context, id int) error
}

// LikeRepository toggles and counts likes
type LikeRepository interface {
	Toggle(ctx context.Context, userID, postID int) (bool, error)
	Exists(ctx context.Context, userID, postID int) (bool, error)
	CountByPost(ctx context.Context, postID int) (int, error)
}

// RatingRepository upserts and lists ratings
type RatingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	Get(ctx context.Context, userID, postID int) (*models.Rating, error)
	ListByPost(ctx context.Context, postID int) ([]*models.Rating, error)
}
