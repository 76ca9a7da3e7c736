package transport

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"event-discovery/internal/auth"
	"event-discovery/internal/discovery"
	"event-discovery/internal/domain"
	"event-discovery/internal/service"
)

type EventHandler struct {
	service service.EventService
	reviews *ReviewHandler
	users   *UserEventHandler
	mux     *http.ServeMux
}

func NewEventHandler(svc service.EventService, reviewSvc service.ReviewService, userEventSvc service.UserEventService) *EventHandler {
	h := &EventHandler{
		service: svc,
		reviews: &ReviewHandler{service: reviewSvc},
		users:   &UserEventHandler{service: userEventSvc},
		mux:     http.NewServeMux(),
	}
	h.routes()
	return h
}

func (h *EventHandler) routes() {
	// Collection routes (matched at root of stripped prefix)
	h.mux.HandleFunc("GET /{$}", h.handleDiscover)
	h.mux.HandleFunc("POST /{$}", h.handleCreate)
	h.mux.HandleFunc("POST /batch", h.handleBatchCreate)
	h.mux.HandleFunc("GET /facets", h.handleFacets)

	// Item routes (matched with path value)
	h.mux.HandleFunc("GET /{id}", h.handleGet)
	h.mux.HandleFunc("PUT /{id}", h.handleUpdate)
	h.mux.HandleFunc("DELETE /{id}", h.handleDelete)

	// Nested resources
	h.reviews.register(h.mux)
	h.users.register(h.mux)
}

func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.mux.ServeHTTP(w, r)
}

// handleCreate creates a new event
// @Summary Create Event
// @Description Create a new event owned by the caller
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body domain.EventDTO true "Event Data"
// @Success 201 {object} domain.APIResponse{data=string} "Returns Event Id"
// @Failure 400 {object} domain.APIResponse{error=string}
// @Router /events [post]
func (h *EventHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var eventDTO domain.EventDTO
	if err := json.NewDecoder(r.Body).Decode(&eventDTO); err != nil {
		respondError(w, domain.ErrValidation("Invalid JSON body"))
		return
	}
	if err := domain.Validate.Struct(eventDTO); err != nil {
		respondError(w, domain.ErrValidation(err.Error()))
		return
	}
	event, err := domain.EventDTOToModel(&eventDTO)
	if err != nil {
		respondError(w, err)
		return
	}
	event.CreatedBy = auth.Email(r.Context())

	if err := h.service.CreateEvent(r.Context(), event); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.APIResponse{Data: event.ID})
}

// handleBatchCreate creates multiple events
// @Summary Batch Create Events
// @Description Create multiple events in one go
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batch body domain.BatchEventRequest true "Batch Data"
// @Success 201 {object} domain.APIResponse{data=string}
// @Failure 400 {object} domain.APIResponse{error=string}
// @Router /events/batch [post]
func (h *EventHandler) handleBatchCreate(w http.ResponseWriter, r *http.Request) {
	var req domain.BatchEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation("Invalid JSON body"))
		return
	}

	if err := domain.Validate.Struct(req); err != nil {
		respondError(w, domain.ErrValidation(err.Error()))
		return
	}

	owner := auth.Email(r.Context())
	events := make([]*domain.Event, 0, len(req.Events))
	for i := range req.Events {
		model, err := domain.EventDTOToModel(&req.Events[i])
		if err != nil {
			respondError(w, domain.ErrValidation(fmt.Sprintf("Item %d: %v", i, err)))
			return
		}
		model.CreatedBy = owner
		events = append(events, model)
	}

	if err := h.service.BatchCreateEvents(r.Context(), events); err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.APIResponse{Data: fmt.Sprintf("Successfully created %d events", len(events))})
}

// handleUpdate updates an existing event
// @Summary Update Event
// @Description Update specific fields of an event. Only its creator may change it.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event Id"
// @Param event body map[string]interface{} true "Fields to update"
// @Success 200 {object} domain.APIResponse{data=string}
// @Failure 400 {object} domain.APIResponse{error=string}
// @Failure 403 {object} domain.APIResponse{error=string}
// @Failure 404 {object} domain.APIResponse{error=string}
// @Router /events/{id} [put]
func (h *EventHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, domain.ErrValidation("Missing id path parameter"))
		return
	}
	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		respondError(w, domain.ErrValidation("Invalid JSON body"))
		return
	}
	if err := h.service.UpdateEvent(r.Context(), id, updates); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: "Updated successfully"})
}

// handleDiscover runs the discovery pipeline over published events
// @Summary Discover Events
// @Description Filter, sort and page published events. Facet counts cover the whole published collection.
// @Tags events
// @Produce json
// @Param q query string false "Free text over title, description and category"
// @Param city query string false "Location substring, case-insensitive"
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Param category query []string false "Categories (any of)" collectionFormat(multi)
// @Param cities query []string false "Sidebar cities (any of)" collectionFormat(multi)
// @Param date_range query []string false "today, this_week, this_month, next_month" collectionFormat(multi)
// @Param min_price query int false "Minimum price"
// @Param max_price query int false "Maximum price"
// @Param free_only query bool false "Only free events"
// @Param sort query string false "latest, popular, date, price-low, price-high"
// @Param page_size query int false "Page Size (1-100)"
// @Param page_token query string false "Pagination Token"
// @Success 200 {object} domain.APIResponse{data=[]domain.Event,meta=domain.Meta}
// @Failure 400 {object} domain.APIResponse{error=string}
// @Router /events [get]
func (h *EventHandler) handleDiscover(w http.ResponseWriter, r *http.Request) {
	dto, err := bindDiscoverQuery(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}
	if err := domain.Validate.Struct(dto); err != nil {
		respondError(w, domain.ErrValidation(err.Error()))
		return
	}
	if dto.MinPrice != nil && dto.MaxPrice != nil && *dto.MinPrice > *dto.MaxPrice {
		respondError(w, domain.ErrValidation("min_price cannot be greater than max_price"))
		return
	}

	res, err := h.service.DiscoverEvents(r.Context(), service.DiscoverRequest{
		Criteria:  toCriteria(dto),
		PageSize:  dto.PageSize,
		PageToken: dto.PageToken,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.APIResponse{
		Data: res.Events,
		Meta: domain.Meta{
			Total:         res.Total,
			NextPageToken: res.NextPageToken,
			Facets:        &res.Facets,
		},
	})
}

// bindDiscoverQuery maps strings directly and parses numbers manually to
// catch type errors early.
func bindDiscoverQuery(q url.Values) (domain.DiscoverQueryDTO, error) {
	dto := domain.DiscoverQueryDTO{
		Query:      q.Get("q"),
		City:       q.Get("city"),
		Date:       q.Get("date"),
		Categories: q["category"],
		Cities:     q["cities"],
		DateRanges: q["date_range"],
		Sort:       q.Get("sort"),
		PageToken:  q.Get("page_token"),
		PageSize:   discovery.DefaultPageSize,
	}

	if val := q.Get("page_size"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return dto, domain.ErrValidation("page_size must be a valid integer")
		}
		dto.PageSize = i
	}
	for _, p := range []struct {
		name string
		dst  **int
	}{{"min_price", &dto.MinPrice}, {"max_price", &dto.MaxPrice}} {
		val := q.Get(p.name)
		if val == "" {
			continue
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			return dto, domain.ErrValidation(p.name + " must be a valid integer")
		}
		*p.dst = &i
	}
	if val := q.Get("free_only"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return dto, domain.ErrValidation("free_only must be true or false")
		}
		dto.FreeOnly = b
	}
	return dto, nil
}

// toCriteria converts a validated query. Parsing cannot fail here.
func toCriteria(dto domain.DiscoverQueryDTO) discovery.Criteria {
	c := discovery.Criteria{
		Query:      dto.Query,
		City:       dto.City,
		Categories: dto.Categories,
		Cities:     dto.Cities,
		FreeOnly:   dto.FreeOnly,
		Sort:       discovery.SortKey(dto.Sort),
	}
	if dto.Date != "" {
		c.Date, _ = time.Parse(time.DateOnly, dto.Date)
	}
	for _, r := range dto.DateRanges {
		if b, ok := discovery.ParseDateBucket(r); ok {
			c.DateBuckets = append(c.DateBuckets, b)
		}
	}
	if dto.MinPrice != nil || dto.MaxPrice != nil {
		pr := discovery.PriceRange{Min: 0, Max: math.MaxInt}
		if dto.MinPrice != nil {
			pr.Min = *dto.MinPrice
		}
		if dto.MaxPrice != nil {
			pr.Max = *dto.MaxPrice
		}
		c.Price = &pr
	}
	return c
}

// handleFacets returns sidebar counts over all published events
// @Summary Event Facets
// @Description Per-category and per-city counts of published events
// @Tags events
// @Produce json
// @Success 200 {object} domain.APIResponse{data=domain.Facets}
// @Router /events/facets [get]
func (h *EventHandler) handleFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.service.Facets(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: facets})
}

// handleGet retrieves a single event
// @Summary Get Event
// @Description Get details of a specific event by Id
// @Tags events
// @Produce json
// @Param id path string true "Event Id"
// @Success 200 {object} domain.APIResponse{data=domain.Event}
// @Failure 404 {object} domain.APIResponse{error=string}
// @Router /events/{id} [get]
func (h *EventHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: event})
}

// handleDelete deletes an event
// @Summary Delete Event
// @Description Remove an event by Id
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event Id"
// @Success 200 {object} domain.APIResponse{data=string}
// @Failure 403 {object} domain.APIResponse{error=string}
// @Failure 404 {object} domain.APIResponse{error=string}
// @Router /events/{id} [delete]
func (h *EventHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: "Deleted successfully"})
}
