package app

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/kairoplan/kairoplan/internal/config"
	"github.com/kairoplan/kairoplan/internal/rest"
	"github.com/kairoplan/kairoplan/internal/utils"
	"github.com/kairoplan/kairoplan/pkg/appstate"
	"github.com/kairoplan/kairoplan/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {
	if limiter := NewRateLimiter(cfg.Server.RateLimit, cfg.Server.Burst); limiter != nil {
		r.Use(limiter.Middleware)
	} else {
		log.Info("API rate limiting disabled")
	}

	// Build the view state from query parameters for downstream handlers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			today := calendar.DateOf(utils.NowIn(deps.Clock, deps.Store.Location()))
			state, err := StateFromQuery(req, today)
			if err != nil {
				log.Debugf("invalid view state: %v", err)
				rest.WriteError(w, http.StatusBadRequest, "Invalid view state", err.Error())
				return
			}
			next.ServeHTTP(w, req.WithContext(appstate.WithState(req.Context(), state)))
		})
	})
}

// StateFromQuery reads view, date, dark, hide and type. hide and type take
// comma separated event types: hide switches their visible flag off, type
// fills the inclusion list.
func StateFromQuery(req *http.Request, today calendar.Date) (appstate.State, error) {
	query := req.URL.Query()
	state := appstate.New(today)

	mode, err := appstate.ParseViewMode(query.Get("view"))
	if err != nil {
		return appstate.State{}, err
	}
	state.ViewMode = mode

	if raw := query.Get("date"); raw != "" {
		date, err := calendar.ParseDate(raw)
		if err != nil {
			return appstate.State{}, err
		}
		state.CurrentDate = date
	}

	if raw := query.Get("dark"); raw != "" {
		dark, err := strconv.ParseBool(raw)
		if err != nil {
			return appstate.State{}, err
		}
		state.DarkMode = dark
	}

	for _, t := range splitTypes(query.Get("hide")) {
		state.Filter = state.Filter.SetVisible(t, false)
	}
	state.Filter.Include = splitTypes(query.Get("type"))

	if raw := query.Get("step"); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil {
			return appstate.State{}, err
		}
		state = state.Navigate(step)
	}
	return state, nil
}

func splitTypes(raw string) []calendar.Type {
	if raw == "" {
		return nil
	}
	var types []calendar.Type
	for _, part := range strings.Split(raw, ",") {
		if t := strings.ToLower(strings.TrimSpace(part)); t != "" {
			types = append(types, calendar.Type(t))
		}
	}
	return types
}
