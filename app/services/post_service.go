package services

import (
	"context"
	"fmt"

	"postboard/app/apperr"
	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/policy"
	"postboard/app/repositories"
)

// UpdatePostInput is a partial post update; a nil MediaURL keeps the media
type UpdatePostInput struct {
	ID       int
	Caption  *string
	MediaURL []string
}

// PostService handles business logic for posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	likeRepo    repositories.LikeRepository
	ratingRepo  repositories.RatingRepository
	userRepo    repositories.UserRepository
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	likeRepo repositories.LikeRepository,
	ratingRepo repositories.RatingRepository,
	userRepo repositories.UserRepository,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		ratingRepo:  ratingRepo,
		userRepo:    userRepo,
	}
}

// CreatePost creates a post owned by the caller
func (s *PostService) CreatePost(ctx context.Context, actor auth.Principal, caption string, mediaURLs []string) (*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	post := &models.Post{
		UserID:   actor.ID,
		Caption:  caption,
		MediaURL: mediaURLs,
	}
	post.BeforeCreate()
	if err := post.Validate(); err != nil {
		return nil, translate(err, "post")
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, translate(err, "Post")
	}
	return post, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, actor auth.Principal, id int) (*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Post")
	}
	return post, nil
}

// GetPostDetail returns the post and its author with the comment threads,
// like count and average rating. Any authenticated caller may read it.
func (s *PostService) GetPostDetail(ctx context.Context, actor auth.Principal, id int) (*models.PostDetail, error) {
	post, err := s.GetPost(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	who := newAuthors(s.userRepo)
	author, err := who.get(ctx, post.UserID, true)
	if err != nil {
		return nil, err
	}
	threads, err := buildThreads(ctx, s.commentRepo, who, id)
	if err != nil {
		return nil, err
	}

	likeCount, err := s.likeRepo.CountByPost(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "count likes")
	}

	ratings, err := s.ratingRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(err, "list ratings")
	}

	return &models.PostDetail{
		Post:      &models.PostView{Post: post, User: author},
		Comments:  threads,
		LikeCount: likeCount,
		AvgRating: averageRating(ratings),
	}, nil
}

// ListPosts returns every post, newest first; admin only
func (s *PostService) ListPosts(ctx context.Context, actor auth.Principal) ([]*models.Post, error) {
	if err := policy.Authorize(actor, policy.ListPosts, 0); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, translate(err, "posts")
	}
	return posts, nil
}

// UpdatePost changes caption and/or media of a post. The owner never changes.
func (s *PostService) UpdatePost(ctx context.Context, actor auth.Principal, in UpdatePostInput) (*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if in.ID <= 0 {
		return nil, apperr.Validationf("Post id is required")
	}
	existing, err := s.postRepo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, translate(err, "Post")
	}
	if err := policy.Authorize(actor, policy.UpdatePost, existing.UserID); err != nil {
		return nil, err
	}

	if in.Caption != nil {
		existing.Caption = *in.Caption
	}
	if in.MediaURL != nil {
		existing.MediaURL = in.MediaURL
	}
	if err := existing.Validate(); err != nil {
		return nil, translate(err, "post")
	}
	if err := s.postRepo.Update(ctx, existing); err != nil {
		return nil, translate(err, "Post")
	}
	return existing, nil
}

// DeletePost deletes a post with all of its comments, likes and ratings
func (s *PostService) DeletePost(ctx context.Context, actor auth.Principal, id int) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	existing, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return translate(err, "Post")
	}
	if err := policy.Authorize(actor, policy.DeletePost, existing.UserID); err != nil {
		return err
	}
	return translate(s.postRepo.Delete(ctx, id), "Post")
}

// averageRating formats the mean rating with two decimals, nil when unrated
func averageRating(ratings []*models.Rating) *string {
	if len(ratings) == 0 {
		return nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	avg := fmt.Sprintf("%.2f", float64(sum)/float64(len(ratings)))
	return &avg
}
