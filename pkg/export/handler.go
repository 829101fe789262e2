package export

import (
	"net/http"

	"github.com/kairoplan/kairoplan/internal/utils"
	"github.com/kairoplan/kairoplan/pkg/appstate"
	"github.com/kairoplan/kairoplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	store *calendar.Store
	clock utils.Clock
}

func NewHandler(store *calendar.Store, clock utils.Clock) *Handler {
	return &Handler{store: store, clock: clock}
}

func (h *Handler) events(r *http.Request) []calendar.Event {
	return calendar.SortByStart(appstate.FilterOf(r.Context()).Apply(h.store.List()))
}

// GetICS godoc
// @Summary Export the filtered events as iCalendar
// @Tags Export
// @Produce text/calendar
// @Success 200 {string} string "VCALENDAR"
// @Router /api/export.ics [get]
func (h *Handler) GetICS(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting events as iCalendar")
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kairoplan.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ICS(h.events(r), h.clock.Now()))); err != nil {
		log.Errorf("failed to write iCalendar export: %v", err)
	}
}

// GetCSV godoc
// @Summary Export the filtered events as CSV
// @Tags Export
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Router /api/export.csv [get]
func (h *Handler) GetCSV(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting events as CSV")
	out, err := CSV(h.events(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kairoplan.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		log.Errorf("failed to write CSV export: %v", err)
	}
}
