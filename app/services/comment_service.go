package services

import (
	"context"
	"errors"
	"strings"

	"postboard/app/apperr"
	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/policy"
	"postboard/app/repositories"
)

// AddCommentInput carries a new comment; a nil ParentCommentID makes a root
type AddCommentInput struct {
	Content         string
	PostID          int
	ParentCommentID *int
}

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	userRepo    repositories.UserRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, userRepo repositories.UserRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, userRepo: userRepo}
}

// AddComment stores a comment by the caller. The parent id is kept as given
// and is not checked against the post.
func (s *CommentService) AddComment(ctx context.Context, actor auth.Principal, in AddCommentInput) (*models.Comment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" || in.PostID <= 0 {
		return nil, apperr.Validationf("Content and postId are required")
	}
	if in.ParentCommentID != nil && *in.ParentCommentID <= 0 {
		in.ParentCommentID = nil
	}

	comment := &models.Comment{
		Content:         in.Content,
		PostID:          in.PostID,
		UserID:          actor.ID,
		ParentCommentID: in.ParentCommentID,
	}
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return nil, translate(err, "comment")
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, translate(err, "Comment")
	}
	return comment, nil
}

// ListThreads returns the root comments of a post with their direct replies
func (s *CommentService) ListThreads(ctx context.Context, actor auth.Principal, postID int) ([]*models.CommentThread, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if postID <= 0 {
		return nil, apperr.Validationf("postId is required")
	}
	return buildThreads(ctx, s.commentRepo, newAuthors(s.userRepo), postID)
}

// DeleteComment removes one comment. Its replies are left in place.
func (s *CommentService) DeleteComment(ctx context.Context, actor auth.Principal, id int) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return translate(err, "Comment")
	}
	if err := policy.Authorize(actor, policy.DeleteComment, comment.UserID); err != nil {
		return err
	}
	return translate(s.commentRepo.Delete(ctx, id), "Comment")
}

// buildThreads groups a post's comments into roots with one level of
// replies. Both levels keep the repository's newest-first order. Root
// authors carry their email, reply authors do not.
func buildThreads(ctx context.Context, comments repositories.CommentRepository, who *authors, postID int) ([]*models.CommentThread, error) {
	all, err := comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, apperr.Wrap(err, "list comments")
	}

	threads := make([]*models.CommentThread, 0)
	for _, c := range all {
		if !c.IsRoot() {
			continue
		}
		author, err := who.get(ctx, c.UserID, true)
		if err != nil {
			return nil, err
		}
		replies, err := comments.ListReplies(ctx, c.ID)
		if err != nil {
			return nil, apperr.Wrap(err, "list replies")
		}
		views := make([]*models.CommentView, 0, len(replies))
		for _, r := range replies {
			replyAuthor, err := who.get(ctx, r.UserID, false)
			if err != nil {
				return nil, err
			}
			views = append(views, &models.CommentView{Comment: r, User: replyAuthor})
		}
		threads = append(threads, &models.CommentThread{Comment: c, User: author, Replies: views})
	}
	return threads, nil
}

// authors resolves author blocks for one read, loading each user once.
type authors struct {
	users repositories.UserRepository
	seen  map[int]*models.User
}

func newAuthors(users repositories.UserRepository) *authors {
	return &authors{users: users, seen: make(map[int]*models.User)}
}

// get returns nil for users that no longer exist.
func (a *authors) get(ctx context.Context, id int, withEmail bool) (*models.Author, error) {
	user, ok := a.seen[id]
	if !ok {
		var err error
		user, err = a.users.GetByID(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			user = nil
		} else if err != nil {
			return nil, apperr.Wrap(err, "load author")
		}
		a.seen[id] = user
	}
	if user == nil {
		return nil, nil
	}
	author := &models.Author{ID: user.ID, Username: user.Username}
	if withEmail {
		author.Email = user.Email
	}
	return author, nil
}
