// Package seed fills a fresh database with an admin account and sample
// content.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"postboard/app/apperr"
	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/services"

	"github.com/brianvoe/gofakeit/v6"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "123456"
)

// ErrAlreadySeeded is returned when the admin account exists already.
var ErrAlreadySeeded = errors.New("database already seeded")

// Options controls how much fake content is generated.
type Options struct {
	Users        int
	PostsPerUser int
	// Seed makes the fake data reproducible; zero picks a random seed.
	Seed int64
}

// Summary counts what Run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
	Ratings  int
}

// Run creates the admin with a welcome post, then opts.Users fake users
// who each post, comment on, like and rate the welcome post.
func Run(ctx context.Context, svc *services.Services, opts Options) (*Summary, error) {
	if opts.PostsPerUser <= 0 {
		opts.PostsPerUser = 1
	}
	faker := gofakeit.New(opts.Seed)
	sum := &Summary{}

	admin, err := svc.Users.CreateAdmin(ctx, services.SignupInput{
		Username: "admin",
		Email:    AdminEmail,
		Password: AdminPassword,
		Bio:      "Site administrator",
	})
	if err != nil {
		if apperr.KindOf(err) == apperr.Validation {
			return nil, ErrAlreadySeeded
		}
		return nil, err
	}
	sum.Users++
	adminActor := auth.Principal{ID: admin.ID, Role: admin.Role}

	welcome, err := svc.Posts.CreatePost(ctx, adminActor, "Welcome to postboard!", []string{})
	if err != nil {
		return nil, fmt.Errorf("welcome post: %w", err)
	}
	sum.Posts++
	if _, err := svc.Comments.AddComment(ctx, adminActor, services.AddCommentInput{
		Content: "Say hello below.",
		PostID:  welcome.ID,
	}); err != nil {
		return nil, fmt.Errorf("welcome comment: %w", err)
	}
	sum.Comments++
	if _, err := svc.Engagement.ToggleLike(ctx, adminActor, welcome.ID); err != nil {
		return nil, fmt.Errorf("welcome like: %w", err)
	}
	sum.Likes++
	if _, err := svc.Engagement.RatePost(ctx, adminActor, welcome.ID, 5); err != nil {
		return nil, fmt.Errorf("welcome rating: %w", err)
	}
	sum.Ratings++

	for i := 0; i < opts.Users; i++ {
		user, err := svc.Users.Signup(ctx, services.SignupInput{
			Username: fmt.Sprintf("%s%d", faker.Username(), i),
			Email:    fmt.Sprintf("user%d.%s", i, faker.Email()),
			Password: faker.Password(true, true, true, false, false, 10),
			Bio:      faker.Sentence(8),
		})
		if err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		sum.Users++
		actor := auth.Principal{ID: user.ID, Role: models.RoleUser}

		for j := 0; j < opts.PostsPerUser; j++ {
			media := []string{faker.URL() + "/" + faker.UUID() + ".jpg"}
			if _, err := svc.Posts.CreatePost(ctx, actor, faker.Sentence(6), media); err != nil {
				return nil, fmt.Errorf("seed post for user %d: %w", user.ID, err)
			}
			sum.Posts++
		}

		if _, err := svc.Comments.AddComment(ctx, actor, services.AddCommentInput{
			Content: faker.Sentence(10),
			PostID:  welcome.ID,
		}); err != nil {
			return nil, fmt.Errorf("seed comment for user %d: %w", user.ID, err)
		}
		sum.Comments++

		if faker.Bool() {
			if _, err := svc.Engagement.ToggleLike(ctx, actor, welcome.ID); err != nil {
				return nil, err
			}
			sum.Likes++
		}
		if _, err := svc.Engagement.RatePost(ctx, actor, welcome.ID, faker.Number(1, 5)); err != nil {
			return nil, err
		}
		sum.Ratings++
	}

	log.Printf("Seeded %d users, %d posts, %d comments, %d likes, %d ratings",
		sum.Users, sum.Posts, sum.Comments, sum.Likes, sum.Ratings)
	return sum, nil
}
