package controllers

import (
	"net/http"

	"postboard/app/services"
)

type EngagementController struct {
	engagementService *services.EngagementService
}

func NewEngagementController(engagementService *services.EngagementService) *EngagementController {
	return &EngagementController{engagementService: engagementService}
}

// AddLike toggles the caller's like on a post
func (ec *EngagementController) AddLike(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PostID int `json:"postId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	liked, err := ec.engagementService.ToggleLike(r.Context(), actor(r), req.PostID)
	if err != nil {
		sendError(w, err)
		return
	}
	message := "Unliked"
	if liked {
		message = "Liked"
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"message": message, "liked": liked})
}

// RatePost stores the caller's 1-5 rating for a post
func (ec *EngagementController) RatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PostID int `json:"postId"`
		Rating int `json:"rating"`
	}
	if err := decodeJSON(r, &req); err != nil {
		sendError(w, err)
		return
	}
	rating, err := ec.engagementService.RatePost(r.Context(), actor(r), req.PostID, req.Rating)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"message": "Rating saved", "rating": rating})
}
