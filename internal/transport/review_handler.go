package transport

import (
	"encoding/json"
	"net/http"

	"event-discovery/internal/auth"
	"event-discovery/internal/domain"
	"event-discovery/internal/service"
)

// ReviewHandler serves /events/{id}/reviews and /events/{id}/rating.
type ReviewHandler struct {
	service service.ReviewService
}

func (h *ReviewHandler) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{id}/reviews", h.handleList)
	mux.HandleFunc("POST /{id}/reviews", h.handleCreate)
	mux.HandleFunc("PUT /{id}/reviews", h.handleUpdate)
	mux.HandleFunc("DELETE /{id}/reviews", h.handleDelete)
	mux.HandleFunc("GET /{id}/rating", h.handleRating)
}

func decodeReview(r *http.Request) (domain.ReviewDTO, error) {
	var dto domain.ReviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return dto, domain.ErrValidation("Invalid JSON body")
	}
	if err := domain.Validate.Struct(dto); err != nil {
		return dto, domain.ErrValidation(err.Error())
	}
	return dto, nil
}

// handleList lists an event's reviews
// @Summary List Reviews
// @Description Reviews of an event, newest first
// @Tags reviews
// @Produce json
// @Param id path string true "Event Id"
// @Success 200 {object} domain.APIResponse{data=[]domain.Review}
// @Router /events/{id}/reviews [get]
func (h *ReviewHandler) handleList(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: reviews})
}

// handleCreate adds the caller's review
// @Summary Add Review
// @Description Rate an event once; a second review is a conflict
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event Id"
// @Param review body domain.ReviewDTO true "Rating and comment"
// @Success 201 {object} domain.APIResponse{data=domain.Review}
// @Failure 400 {object} domain.APIResponse{error=string}
// @Failure 409 {object} domain.APIResponse{error=string}
// @Router /events/{id}/reviews [post]
func (h *ReviewHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	dto, err := decodeReview(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}
	review := &domain.Review{
		EventID:    r.PathValue("id"),
		UserEmail:  user.Email,
		UserName:   user.Name,
		UserAvatar: user.Picture,
		Rating:     dto.Rating,
		Comment:    dto.Comment,
	}
	if err := h.service.AddReview(r.Context(), review); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.APIResponse{Data: review})
}

// handleUpdate edits the caller's review
// @Summary Update Review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event Id"
// @Param review body domain.ReviewDTO true "Rating and comment"
// @Success 200 {object} domain.APIResponse{data=domain.Review}
// @Failure 404 {object} domain.APIResponse{error=string}
// @Router /events/{id}/reviews [put]
func (h *ReviewHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	dto, err := decodeReview(r)
	if err != nil {
		respondError(w, err)
		return
	}
	review, err := h.service.UpdateReview(r.Context(), r.PathValue("id"), auth.Email(r.Context()), dto.Rating, dto.Comment)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: review})
}

// handleDelete removes the caller's review
// @Summary Delete Review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event Id"
// @Success 200 {object} domain.APIResponse{data=string}
// @Failure 404 {object} domain.APIResponse{error=string}
// @Router /events/{id}/reviews [delete]
func (h *ReviewHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteReview(r.Context(), r.PathValue("id"), auth.Email(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: "Deleted successfully"})
}

// handleRating returns the average rating
// @Summary Average Rating
// @Description Mean rating rounded to one decimal, with the review count
// @Tags reviews
// @Produce json
// @Param id path string true "Event Id"
// @Success 200 {object} domain.APIResponse{data=domain.RatingSummary}
// @Router /events/{id}/rating [get]
func (h *ReviewHandler) handleRating(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.AverageRating(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: summary})
}
