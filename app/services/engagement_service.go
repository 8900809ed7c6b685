package services

import (
	"context"

	"postboard/app/apperr"
	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/repositories"
)

// EngagementService handles likes and ratings
type EngagementService struct {
	likeRepo   repositories.LikeRepository
	ratingRepo repositories.RatingRepository
}

func NewEngagementService(likeRepo repositories.LikeRepository, ratingRepo repositories.RatingRepository) *EngagementService {
	return &EngagementService{likeRepo: likeRepo, ratingRepo: ratingRepo}
}

// ToggleLike flips the caller's like on a post and reports the new state.
// The post is not required to exist.
func (s *EngagementService) ToggleLike(ctx context.Context, actor auth.Principal, postID int) (bool, error) {
	if err := requireActor(actor); err != nil {
		return false, err
	}
	if postID <= 0 {
		return false, apperr.Validationf("postId is required")
	}
	like := &models.Like{UserID: actor.ID, PostID: postID}
	if err := like.Validate(); err != nil {
		return false, translate(err, "like")
	}
	liked, err := s.likeRepo.Toggle(ctx, like.UserID, like.PostID)
	if err != nil {
		return false, apperr.Wrap(err, "toggle like")
	}
	return liked, nil
}

// RatePost stores the caller's rating, replacing an earlier one
func (s *EngagementService) RatePost(ctx context.Context, actor auth.Principal, postID, value int) (*models.Rating, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if value < 1 || value > 5 {
		return nil, apperr.Validationf("Rating must be between 1 and 5")
	}
	rating := &models.Rating{UserID: actor.ID, PostID: postID, Rating: value}
	if err := rating.Validate(); err != nil {
		return nil, translate(err, "rating")
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, apperr.Wrap(err, "rate post")
	}
	return rating, nil
}
