package controllers

import (
	"net/http"

	"postboard/app/media"
	"postboard/app/services"
)

// UserController handles account and session endpoints
type UserController struct {
	userService *services.UserService
	uploader    media.Uploader
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, uploader media.Uploader) *UserController {
	return &UserController{userService: userService, uploader: uploader}
}

type signupRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"`
}

// Signup registers a user from JSON or from a multipart form whose
// optional "file" part becomes the profile picture.
func (uc *UserController) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			sendError(w, err)
			return
		}
		req = signupRequest{
			Username: r.FormValue("username"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Bio:      r.FormValue("bio"),
		}
		urls, err := uploadFiles(r, uc.uploader, "file")
		if err != nil {
			sendError(w, err)
			return
		}
		if len(urls) > 0 {
			req.ProfilePicture = urls[0]
		}
	} else if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}

	user, err := uc.userService.Signup(r.Context(), services.SignupInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login exchanges credentials for a token
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	res, err := uc.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, res)
}

// Logout revokes the caller's session
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := uc.userService.Logout(r.Context(), actor(r)); err != nil {
		sendError(w, err)
		return
	}
	sendMessage(w, "Logged out successfully")
}

// GetAllUsers lists every user; admin only
func (uc *UserController) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := uc.userService.ListUsers(r.Context(), actor(r))
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, users)
}

// GetUserByID returns the user named by adminUserSearch, or the caller
func (uc *UserController) GetUserByID(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminUserSearch int `json:"adminUserSearch"`
	}
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	user, err := uc.userService.GetUser(r.Context(), actor(r), req.AdminUserSearch)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Password       *string `json:"password"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
}

// UpdateUser patches the caller's profile from JSON or a multipart form
func (uc *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			sendError(w, err)
			return
		}
		req.Username = formValue(r, "username")
		req.Email = formValue(r, "email")
		req.Password = formValue(r, "password")
		req.Bio = formValue(r, "bio")
		urls, err := uploadFiles(r, uc.uploader, "file")
		if err != nil {
			sendError(w, err)
			return
		}
		if len(urls) > 0 {
			req.ProfilePicture = &urls[0]
		}
	} else if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}

	user, err := uc.userService.UpdateUser(r.Context(), actor(r), services.UpdateUserInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, user)
}

// DeleteUser removes the user named by deleteuserid; admin only
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeleteUserID int `json:"deleteuserid"`
	}
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	if err := uc.userService.AdminDeleteUser(r.Context(), actor(r), req.DeleteUserID); err != nil {
		sendError(w, err)
		return
	}
	sendMessage(w, "User deleted successfully")
}

// formValue returns nil when the field is absent from the form.
func formValue(r *http.Request, key string) *string {
	if _, ok := r.MultipartForm.Value[key]; !ok {
		return nil
	}
	v := r.FormValue(key)
	return &v
}
