package transport

import (
	"context"
	"net/http"

	"event-discovery/internal/auth"
	"event-discovery/internal/domain"
	"event-discovery/internal/service"
)

// UserEventHandler serves the caller's per-event actions under /events/{id}/.
type UserEventHandler struct {
	service service.UserEventService
}

func (h *UserEventHandler) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /{id}/registration", h.action(h.service.Register, "Registered"))
	mux.HandleFunc("DELETE /{id}/registration", h.action(h.service.Unregister, "Registration cancelled"))
	mux.HandleFunc("POST /{id}/favorite", h.action(h.service.Favorite, "Added to favorites"))
	mux.HandleFunc("DELETE /{id}/favorite", h.action(h.service.Unfavorite, "Removed from favorites"))
	mux.HandleFunc("GET /{id}/status", h.handleStatus)
}

// action adapts a (email, eventID) service call into a handler.
// @Summary Register, unregister, favorite or unfavorite
// @Tags user-events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event Id"
// @Success 200 {object} domain.APIResponse{data=string}
// @Failure 401 {object} domain.APIResponse{error=string}
// @Failure 409 {object} domain.APIResponse{error=string}
// @Router /events/{id}/registration [post]
// @Router /events/{id}/registration [delete]
// @Router /events/{id}/favorite [post]
// @Router /events/{id}/favorite [delete]
func (h *UserEventHandler) action(call func(ctx context.Context, email, eventID string) error, done string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := call(r.Context(), auth.Email(r.Context()), r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.APIResponse{Data: done})
	}
}

// handleStatus reports how the caller relates to one event
// @Summary User Event Status
// @Description Registered, favorited and reviewed flags; all false for guests
// @Tags user-events
// @Produce json
// @Param id path string true "Event Id"
// @Success 200 {object} domain.APIResponse{data=domain.UserEventStatus}
// @Router /events/{id}/status [get]
func (h *UserEventHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), auth.Email(r.Context()), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: status})
}

// MeHandler serves /me/, the signed-in user's own lists.
type MeHandler struct {
	events service.EventService
	users  service.UserEventService
	mux    *http.ServeMux
}

func NewMeHandler(eventSvc service.EventService, userEventSvc service.UserEventService) *MeHandler {
	h := &MeHandler{
		events: eventSvc,
		users:  userEventSvc,
		mux:    http.NewServeMux(),
	}
	h.routes()
	return h
}

func (h *MeHandler) routes() {
	h.mux.HandleFunc("GET /events", h.handleMyEvents)
	h.mux.HandleFunc("GET /registrations", h.list(h.users.ListRegistrations))
	h.mux.HandleFunc("GET /favorites", h.list(h.users.ListFavorites))
	h.mux.HandleFunc("GET /follows", h.list(h.users.ListFollows))
	h.mux.HandleFunc("POST /follows/{organizer}", h.handleFollow)
	h.mux.HandleFunc("DELETE /follows/{organizer}", h.handleUnfollow)
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.mux.ServeHTTP(w, r)
}

// handleMyEvents lists events the caller created
// @Summary My Events
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param status query string false "draft or published"
// @Success 200 {object} domain.APIResponse{data=[]domain.Event}
// @Failure 401 {object} domain.APIResponse{error=string}
// @Router /me/events [get]
func (h *MeHandler) handleMyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListUserEvents(r.Context(), auth.Email(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: events})
}

// list returns event ids (or organizer names for follows)
// @Summary My registrations, favorites or follows
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.APIResponse{data=[]string}
// @Failure 401 {object} domain.APIResponse{error=string}
// @Router /me/registrations [get]
// @Router /me/favorites [get]
// @Router /me/follows [get]
func (h *MeHandler) list(call func(ctx context.Context, email string) ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targets, err := call(r.Context(), auth.Email(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.APIResponse{Data: targets})
	}
}

// handleFollow follows an organizer by name
// @Summary Follow Organizer
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param organizer path string true "Organizer name"
// @Success 200 {object} domain.APIResponse{data=string}
// @Failure 409 {object} domain.APIResponse{error=string}
// @Router /me/follows/{organizer} [post]
func (h *MeHandler) handleFollow(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Follow(r.Context(), auth.Email(r.Context()), r.PathValue("organizer")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: "Following"})
}

// handleUnfollow stops following an organizer
// @Summary Unfollow Organizer
// @Tags me
// @Produce json
// @Security BearerAuth
// @Param organizer path string true "Organizer name"
// @Success 200 {object} domain.APIResponse{data=string}
// @Failure 404 {object} domain.APIResponse{error=string}
// @Router /me/follows/{organizer} [delete]
func (h *MeHandler) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Unfollow(r.Context(), auth.Email(r.Context()), r.PathValue("organizer")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: "Unfollowed"})
}
