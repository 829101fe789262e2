package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/kairoplan/kairoplan/internal/rest"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Date         string    `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Time         string    `json:"time"`
	Duration     string    `json:"duration,omitempty"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	IsPredefined bool      `json:"isPredefined"`
}

// AddEventRequest accepts either the form fields (date, startTime, endTime)
// or explicit start and end instants.
type AddEventRequest struct {
	EventForm
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// FilterFunc supplies the type filter for a request.
type FilterFunc func(ctx context.Context) Filter

type Handler struct {
	store    *Store
	filterOf FilterFunc
}

func NewHandler(store *Store, filterOf FilterFunc) *Handler {
	if filterOf == nil {
		filterOf = func(context.Context) Filter { return DefaultFilter() }
	}
	return &Handler{store: store, filterOf: filterOf}
}

func EventToDTO(e Event) EventDTO {
	return EventDTO{
		ID:           e.ID,
		Title:        e.Title,
		Type:         string(e.Type),
		Date:         e.Date.String(),
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Time:         e.Time,
		Duration:     e.Duration,
		Start:        e.Start,
		End:          e.End,
		IsPredefined: e.Predefined,
	}
}

func EventsToDTO(events []Event) []EventDTO {
	result := make([]EventDTO, 0, len(events))
	for _, e := range events {
		result = append(result, EventToDTO(e))
	}
	return result
}

// ListEvents godoc
// @Summary List events
// @Description Filtered events, optionally narrowed to a day (date), an hour bucket (date and hour) or a month (year and month)
// @Tags Events
// @Produce json
// @Param date query string false "Day in YYYY-MM-DD format"
// @Param hour query int false "Hour bucket 0-23, requires date"
// @Param year query int false "Year, requires month"
// @Param month query int false "Month 1-12, requires year"
// @Success 200 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing events")
	query := r.URL.Query()
	events := h.filterOf(r.Context()).Apply(h.store.List())

	switch {
	case query.Get("date") != "":
		date, err := ParseDate(query.Get("date"))
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be in YYYY-MM-DD format")
			return
		}
		if query.Get("hour") == "" {
			events = EventsOn(events, date)
			break
		}
		hour, err := strconv.Atoi(query.Get("hour"))
		if err != nil || hour < 0 || hour > 23 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid hour", "'hour' must be an integer between 0 and 23")
			return
		}
		events = EventsAt(events, date, hour)
	case query.Get("year") != "" || query.Get("month") != "":
		year, yearErr := strconv.Atoi(query.Get("year"))
		month, monthErr := strconv.Atoi(query.Get("month"))
		if yearErr != nil || monthErr != nil || month < 1 || month > 12 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid month", "'year' and 'month' (1-12) must both be integers")
			return
		}
		events = EventsIn(events, year, time.Month(month))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(EventsToDTO(SortByStart(events))); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetEvent godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} EventDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{id} [get]
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	event, ok := h.store.Get(id)
	if !ok {
		rest.WriteError(w, http.StatusNotFound, "Event not found", id)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(EventToDTO(event)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// AddEvent godoc
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Param event body AddEventRequest true "Event"
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/events [post]
func (h *Handler) AddEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adding event")
	var request AddEventRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	input, err := request.toUserInput(h.store.Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
		return
	}

	event, err := h.store.Add(input)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) || errors.Is(err, ErrMissingTitle) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(EventToDTO(event)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (r AddEventRequest) toUserInput(loc *time.Location) (UserInput, error) {
	if r.Start != nil || r.End != nil {
		if r.Start == nil || r.End == nil {
			return UserInput{}, fmt.Errorf("%w: start and end must be given together", ErrInvalidForm)
		}
		return UserInput{Title: r.Title, Type: Type(r.Type), Start: *r.Start, End: *r.End}, nil
	}
	return NewUserInput(r.EventForm, loc)
}

// DeleteEvent godoc
// @Summary Delete a user event
// @Tags Events
// @Param id path string true "Event ID"
// @Success 204 "No Content"
// @Failure 403 {object} rest.ErrorResponse "Predefined event"
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/events/{id} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Debugf("Deleting event %s", id)
	err := h.store.Delete(id)
	switch {
	case errors.Is(err, ErrPredefinedEvent):
		rest.WriteError(w, http.StatusForbidden, "Predefined events cannot be deleted", id)
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", id)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
