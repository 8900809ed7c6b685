package services

import (
	"postboard/app/auth"
	"postboard/app/repositories"
)

// Services bundles the service layer shared by the REST and GraphQL surfaces
type Services struct {
	Users      *UserService
	Posts      *PostService
	Comments   *CommentService
	Engagement *EngagementService
	Auth       *auth.Issuer
}

// New wires every service onto the given repositories
func New(repos *repositories.Repositories, issuer *auth.Issuer) *Services {
	return &Services{
		Users:      NewUserService(repos.Users, issuer),
		Posts:      NewPostService(repos.Posts, repos.Comments, repos.Likes, repos.Ratings, repos.Users),
		Comments:   NewCommentService(repos.Comments, repos.Users),
		Engagement: NewEngagementService(repos.Likes, repos.Ratings),
		Auth:       issuer,
	}
}
