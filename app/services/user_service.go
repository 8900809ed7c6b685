package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"postboard/app/apperr"
	"postboard/app/auth"
	"postboard/app/models"
	"postboard/app/policy"
	"postboard/app/repositories"
)

// SignupInput carries the fields accepted at registration
type SignupInput struct {
	Username       string `validate:"required,min=2,max=50"`
	Email          string `validate:"required,email"`
	Password       string `validate:"required,min=6"`
	Bio            string `validate:"max=1000"`
	ProfilePicture string `validate:"omitempty,url"`
}

// UpdateUserInput is a partial profile update; nil fields are left alone
type UpdateUserInput struct {
	Username       *string `validate:"omitempty,min=2,max=50"`
	Email          *string `validate:"omitempty,email"`
	Password       *string `validate:"omitempty,min=6"`
	Bio            *string `validate:"omitempty,max=1000"`
	ProfilePicture *string `validate:"omitempty,url"`
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string    `json:"token"`
	UserID    int       `json:"userId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UserService handles accounts and sessions
type UserService struct {
	users  repositories.UserRepository
	issuer *auth.Issuer
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, issuer *auth.Issuer) *UserService {
	return &UserService{users: users, issuer: issuer}
}

// Signup registers a regular user
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Email = models.NormalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validate.Struct(in); err != nil {
		return nil, translate(err, "user")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(err, "signup")
	}
	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   hash,
		Bio:            in.Bio,
		ProfilePicture: in.ProfilePicture,
		Role:           models.RoleUser,
	}
	user.BeforeCreate()
	if err := user.Validate(); err != nil {
		return nil, translate(err, "user")
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	return user.Sanitized(), nil
}

// CreateAdmin registers a user holding the admin role. Used by seeding.
func (s *UserService) CreateAdmin(ctx context.Context, in SignupInput) (*models.User, error) {
	user, err := s.Signup(ctx, in)
	if err != nil {
		return nil, err
	}
	stored, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, translate(err, "user")
	}
	stored.Role = models.RoleAdmin
	if err := s.users.Update(ctx, stored); err != nil {
		return nil, translate(err, "user")
	}
	return stored.Sanitized(), nil
}

// Login checks credentials and issues a token, replacing any earlier session
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperr.Validationf("Email and password are required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Validationf("Invalid email or password")
		}
		return nil, translate(err, "user")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Validationf("Invalid email or password")
	}

	token, expiresAt, err := s.issuer.Issue(ctx, user.ID, user.Role)
	if err != nil {
		return nil, apperr.Wrap(err, "login")
	}
	return &LoginResult{Token: token, UserID: user.ID, Role: user.Role, ExpiresAt: expiresAt}, nil
}

// Logout revokes the caller's session
func (s *UserService) Logout(ctx context.Context, actor auth.Principal) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return translate(s.issuer.Revoke(ctx, actor.ID), "session")
}

// GetUser returns the user with id. Only admins pick the id; everyone
// else, or an admin passing 0, gets their own record.
func (s *UserService) GetUser(ctx context.Context, actor auth.Principal, id int) (*models.User, error) {
	id = targetUser(actor, id)
	if err := policy.Authorize(actor, policy.ReadUser, id); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "User")
	}
	return user.Sanitized(), nil
}

// ListUsers returns every user; admin only
func (s *UserService) ListUsers(ctx context.Context, actor auth.Principal) ([]*models.User, error) {
	if err := policy.Authorize(actor, policy.ListUsers, 0); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, translate(err, "users")
	}
	out := make([]*models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

// UpdateUser applies a partial update to the caller's own profile.
// The role is never changed here.
func (s *UserService) UpdateUser(ctx context.Context, actor auth.Principal, in UpdateUserInput) (*models.User, error) {
	if err := policy.Authorize(actor, policy.UpdateUser, actor.ID); err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := models.NormalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := validate.Struct(in); err != nil {
		return nil, translate(err, "user")
	}

	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, translate(err, "User")
	}
	if in.Username != nil {
		user.Username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.ProfilePicture != nil {
		user.ProfilePicture = *in.ProfilePicture
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, apperr.Wrap(err, "update user")
		}
		user.PasswordHash = hash
	}
	if err := user.Validate(); err != nil {
		return nil, translate(err, "user")
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, translate(err, "User")
	}
	return user.Sanitized(), nil
}

// DeleteUser deletes the user with id when the caller is an admin.
// Anyone else deletes their own account whatever id they pass.
func (s *UserService) DeleteUser(ctx context.Context, actor auth.Principal, id int) error {
	id = targetUser(actor, id)
	if err := policy.Authorize(actor, policy.DeleteUser, id); err != nil {
		return err
	}
	return s.deleteUser(ctx, id)
}

// AdminDeleteUser deletes any user and requires the admin role
func (s *UserService) AdminDeleteUser(ctx context.Context, actor auth.Principal, id int) error {
	if err := policy.Authorize(actor, policy.DeleteAnyUser, 0); err != nil {
		return err
	}
	if id <= 0 {
		return apperr.Validationf("User id is required")
	}
	return s.deleteUser(ctx, id)
}

// targetUser resolves which account a self-or-admin operation acts on.
func targetUser(actor auth.Principal, id int) int {
	if id == 0 || !actor.IsAdmin() {
		return actor.ID
	}
	return id
}

func (s *UserService) deleteUser(ctx context.Context, id int) error {
	// the repository drops the session together with the user record
	return translate(s.users.Delete(ctx, id), "User")
}
