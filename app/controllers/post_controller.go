package controllers

import (
	"net/http"
	"strconv"

	"postboard/app/apperr"
	"postboard/app/media"
	"postboard/app/services"
)

// PostController handles HTTP requests for posts
type PostController struct {
	postService *services.PostService
	uploader    media.Uploader
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, uploader media.Uploader) *PostController {
	return &PostController{postService: postService, uploader: uploader}
}

type postIDRequest struct {
	ID int `json:"id"`
}

// CreatePost accepts a multipart form with "caption" and any number of
// "file" parts, or JSON with caption and mediaUrl.
func (pc *PostController) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caption  string   `json:"caption"`
		MediaURL []string `json:"mediaUrl"`
	}
	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			sendError(w, err)
			return
		}
		req.Caption = r.FormValue("caption")
		urls, err := uploadFiles(r, pc.uploader, "file")
		if err != nil {
			sendError(w, err)
			return
		}
		req.MediaURL = urls
	} else if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), actor(r), req.Caption, req.MediaURL)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// GetAllPosts lists every post; admin only
func (pc *PostController) GetAllPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context(), actor(r))
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, posts)
}

// GetPostByID returns the post with comments, like count and average rating
func (pc *PostController) GetPostByID(w http.ResponseWriter, r *http.Request) {
	var req postIDRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	detail, err := pc.postService.GetPostDetail(r.Context(), actor(r), req.ID)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, detail)
}

// UpdatePost changes the caption and, when given, the media list. A
// multipart form replaces the media with its uploaded "file" parts.
func (pc *PostController) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       int      `json:"id"`
		Caption  *string  `json:"caption"`
		MediaURL []string `json:"mediaUrl"`
	}
	if isMultipart(r) {
		if err := parseMultipart(r); err != nil {
			sendError(w, err)
			return
		}
		id, err := strconv.Atoi(r.FormValue("id"))
		if err != nil {
			sendError(w, apperr.Validationf("Post id is required"))
			return
		}
		req.ID = id
		req.Caption = formValue(r, "caption")
		urls, err := uploadFiles(r, pc.uploader, "file")
		if err != nil {
			sendError(w, err)
			return
		}
		if len(urls) > 0 {
			req.MediaURL = urls
		}
	} else if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	post, err := pc.postService.UpdatePost(r.Context(), actor(r), services.UpdatePostInput{
		ID:       req.ID,
		Caption:  req.Caption,
		MediaURL: req.MediaURL,
	})
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// DeletePost deletes a post with its comments, likes and ratings
func (pc *PostController) DeletePost(w http.ResponseWriter, r *http.Request) {
	var req postIDRequest
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	if err := pc.postService.DeletePost(r.Context(), actor(r), req.ID); err != nil {
		sendError(w, err)
		return
	}
	sendMessage(w, "Post deleted successfully")
}
