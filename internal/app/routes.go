package app

import (
	"github.com/gorilla/mux"
	"github.com/kairoplan/kairoplan/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Events
	r.HandleFunc("/api/events", deps.CalendarHandler.ListEvents).Methods("GET")
	r.HandleFunc("/api/events", deps.CalendarHandler.AddEvent).Methods("POST")
	r.HandleFunc("/api/events/{id}", deps.CalendarHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/events/{id}", deps.CalendarHandler.DeleteEvent).Methods("DELETE")

	// Views
	r.HandleFunc("/api/view", deps.ViewsHandler.GetView).Methods("GET")
	r.HandleFunc("/api/view/detailed", deps.ViewsHandler.GetDetailed).Methods("GET")

	// Export
	r.HandleFunc("/api/export.ics", deps.ExportHandler.GetICS).Methods("GET")
	r.HandleFunc("/api/export.csv", deps.ExportHandler.GetCSV).Methods("GET")
}
