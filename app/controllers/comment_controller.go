package controllers

import (
	"net/http"

	"postboard/app/services"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// AddComment creates a root comment or, with parentCommentId, a reply
func (cc *CommentController) AddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content         string `json:"content"`
		PostID          int    `json:"postId"`
		ParentCommentID *int   `json:"parentCommentId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	comment, err := cc.commentService.AddComment(r.Context(), actor(r), services.AddCommentInput{
		Content:         req.Content,
		PostID:          req.PostID,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, comment)
}

// GetCommentsByPost returns root comments with their direct replies
func (cc *CommentController) GetCommentsByPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PostID int `json:"postId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	threads, err := cc.commentService.ListThreads(r.Context(), actor(r), req.PostID)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, threads)
}

// DeleteComment removes a single comment
func (cc *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int `json:"id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	if err := cc.commentService.DeleteComment(r.Context(), actor(r), req.ID); err != nil {
		sendError(w, err)
		return
	}
	sendMessage(w, "Comment deleted successfully")
}
