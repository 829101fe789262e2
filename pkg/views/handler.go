package views

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kairoplan/kairoplan/internal/utils"
	"github.com/kairoplan/kairoplan/pkg/appstate"
	"github.com/kairoplan/kairoplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// ViewDTO wraps a projection with the state it was built for.
type ViewDTO struct {
	View     appstate.ViewMode `json:"view"`
	Date     calendar.Date     `json:"date"`
	Today    calendar.Date     `json:"today"`
	DarkMode bool              `json:"darkMode"`
	Data     any               `json:"data"`
}

type Handler struct {
	store     *calendar.Store
	clock     utils.Clock
	weekStart time.Weekday
}

func NewHandler(store *calendar.Store, clock utils.Clock, weekStart time.Weekday) *Handler {
	return &Handler{store: store, clock: clock, weekStart: weekStart}
}

// Today is the current date in the store's location.
func (h *Handler) Today() calendar.Date {
	return calendar.DateOf(utils.NowIn(h.clock, h.store.Location()))
}

func (h *Handler) state(r *http.Request) appstate.State {
	state, err := appstate.Current(r.Context())
	if err != nil {
		return appstate.New(h.Today())
	}
	return state
}

// GetView godoc
// @Summary Projection for the current view
// @Description Month grid, week strip, day slots or year overview depending on the view query parameter
// @Tags Views
// @Produce json
// @Param view query string false "day, week, month or year"
// @Param date query string false "Date the view is centered on, YYYY-MM-DD"
// @Success 200 {object} ViewDTO
// @Router /api/view [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	state := h.state(r)
	today := h.Today()
	events := state.Filter.Apply(h.store.List())
	log.Debugf("Building %s view for %s", state.ViewMode, state.CurrentDate)

	var data any
	switch state.ViewMode {
	case appstate.DayView:
		data = Day(events, state.CurrentDate)
	case appstate.WeekView:
		data = Week(events, state.CurrentDate, h.weekStart, today)
	case appstate.YearView:
		data = Year(events, state.CurrentDate.Year)
	default:
		data = Month(events, state.CurrentDate.Year, state.CurrentDate.Month, h.weekStart, today)
	}

	h.write(w, ViewDTO{
		View:     state.ViewMode,
		Date:     state.CurrentDate,
		Today:    today,
		DarkMode: state.DarkMode,
		Data:     data,
	})
}

// GetDetailed godoc
// @Summary Week by hour grid
// @Tags Views
// @Produce json
// @Param date query string false "Any date of the week, YYYY-MM-DD"
// @Success 200 {object} ViewDTO
// @Router /api/view/detailed [get]
func (h *Handler) GetDetailed(w http.ResponseWriter, r *http.Request) {
	state := h.state(r)
	events := state.Filter.Apply(h.store.List())

	h.write(w, ViewDTO{
		View:     appstate.WeekView,
		Date:     state.CurrentDate,
		Today:    h.Today(),
		DarkMode: state.DarkMode,
		Data:     Detailed(events, state.CurrentDate, h.weekStart),
	})
}

func (h *Handler) write(w http.ResponseWriter, view ViewDTO) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
