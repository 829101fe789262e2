package app

import (
	"github.com/kairoplan/kairoplan/internal/config"
	"github.com/kairoplan/kairoplan/internal/event_bus"
	"github.com/kairoplan/kairoplan/internal/storage"
	"github.com/kairoplan/kairoplan/internal/utils"
	"github.com/kairoplan/kairoplan/pkg/appstate"
	"github.com/kairoplan/kairoplan/pkg/calendar"
	"github.com/kairoplan/kairoplan/pkg/export"
	"github.com/kairoplan/kairoplan/pkg/views"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	CalendarNormalizer *calendar.Normalizer
	CalendarRepository *calendar.RepositoryImpl
	Store              *calendar.Store
	ConflictAdvisor    *calendar.ConflictAdvisor
	CalendarHandler    *calendar.Handler

	ViewsHandler  *views.Handler
	ExportHandler *export.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(slots storage.Slots, catalog []calendar.CatalogEntry, cfg config.Application) *Dependencies {
	deps := &Dependencies{}
	loc := cfg.Location()

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.CalendarNormalizer = calendar.NewNormalizer(loc)
	deps.CalendarRepository = calendar.NewRepository(slots, cfg.Storage.Slot, loc)
	deps.Store = calendar.NewStore(catalog, deps.CalendarRepository, deps.CalendarNormalizer, deps.EventBus)
	deps.ConflictAdvisor = calendar.NewConflictAdvisor(deps.Store)
	deps.ConflictAdvisor.Subscribe(deps.EventBus)
	deps.CalendarHandler = calendar.NewHandler(deps.Store, appstate.FilterOf)

	deps.ViewsHandler = views.NewHandler(deps.Store, deps.Clock, cfg.WeekStart())
	deps.ExportHandler = export.NewHandler(deps.Store, deps.Clock)

	return deps
}
