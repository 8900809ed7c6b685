package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. PasswordHash is persisted but stripped by Sanitized.
type User struct {
	ID             int       `json:"id" validate:"gte=0"`
	Username       string    `json:"username" validate:"required,min=2,max=50"`
	Email          string    `json:"email" validate:"required,email,max=254"`
	PasswordHash   string    `json:"password,omitempty" validate:"required"`
	Bio            string    `json:"bio,omitempty" validate:"max=1000"`
	ProfilePicture string    `json:"profilePicture,omitempty" validate:"omitempty,url"`
	Role           string    `json:"role" validate:"required,oneof=user admin"`
	CreatedAt      time.Time `json:"createdAt" validate:"required"`
}

// Session is the single active login of a user, keyed by user id.
type Session struct {
	ID        string    `json:"id" validate:"required,uuid4"`
	UserID    int       `json:"userId" validate:"required,gt=0"`
	Token     string    `json:"token" validate:"required"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
	ExpiresAt time.Time `json:"expiresAt" validate:"required"`
}

// Post is owned by a user and carries an ordered list of media URLs.
type Post struct {
	ID        int       `json:"id" validate:"gte=0"`
	UserID    int       `json:"userId" validate:"required,gt=0"`
	Caption   string    `json:"caption" validate:"max=2200"`
	MediaURL  []string  `json:"mediaUrl" validate:"dive,url"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
}

// Comment is a node of a post's comment tree. A nil ParentCommentID marks a root.
type Comment struct {
	ID              int       `json:"id" validate:"gte=0"`
	Content         string    `json:"content" validate:"required,max=2000"`
	PostID          int       `json:"postId" validate:"required,gt=0"`
	UserID          int       `json:"userId" validate:"required,gt=0"`
	ParentCommentID *int      `json:"parentCommentId" validate:"omitempty,gt=0"`
	CreatedAt       time.Time `json:"createdAt" validate:"required"`
}

// Like marks that a user liked a post; its existence is the state.
type Like struct {
	UserID int `json:"userId" validate:"required,gt=0"`
	PostID int `json:"postId" validate:"required,gt=0"`
}

// Rating is a user's 1-5 score for a post.
type Rating struct {
	UserID int `json:"userId" validate:"required,gt=0"`
	PostID int `json:"postId" validate:"required,gt=0"`
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// Author is the compact user block embedded in post and comment reads.
// It is nil when the user has since been deleted.
type Author struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// CommentView is a comment with its author.
type CommentView struct {
	*Comment
	User *Author `json:"user"`
}

// CommentThread is a root comment with its direct replies.
type CommentThread struct {
	*Comment
	User    *Author        `json:"user"`
	Replies []*CommentView `json:"replies"`
}

// PostView is a post with its author.
type PostView struct {
	*Post
	User *Author `json:"user"`
}

// PostDetail is the aggregate read of a single post.
type PostDetail struct {
	Post      *PostView        `json:"post"`
	Comments  []*CommentThread `json:"comments"`
	LikeCount int              `json:"likeCount"`
	AvgRating *string          `json:"avgRating"`
}
