package events

import (
	"context"
	"net/http"

	"github.com/mevent/event-manager/backend/cmd/server"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/handlers/middlewares"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/response"
	"github.com/mevent/event-manager/backend/internal/adapters/database/postgres"
	"github.com/mevent/event-manager/backend/internal/domain/dto"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"github.com/mevent/event-manager/backend/internal/domain/service"
	"github.com/mevent/event-manager/backend/pkg/logger/types"
)

type eventService interface {
	List(ctx context.Context, userID uint) ([]dto.Event, error)
	Get(ctx context.Context, id, userID uint) (*dto.Event, error)
	Create(ctx context.Context, creatorID uint, input dto.EventInput) (*dto.Event, error)
	Update(ctx context.Context, id, userID uint, input dto.EventInput) (*dto.Event, error)
	Delete(ctx context.Context, id uint) error
}

type registrationService interface {
	Register(ctx context.Context, user entity.User, eventID uint, input dto.RegistrationInput) (*entity.EventRegistration, error)
	Unregister(ctx context.Context, userID, eventID uint) error
	GetByUserID(ctx context.Context, userID uint) ([]entity.EventRegistration, error)
}

type Handler struct {
	eventService        eventService
	registrationService registrationService
	logger              *types.Logger
}

func New(s *server.Server) *Handler {
	eventStorage := postgres.NewEventStorage(s.DB)
	registrationStorage := postgres.NewEventRegistrationStorage(s.DB)
	reminderStorage := postgres.NewReminderStorage(s.DB)

	return &Handler{
		eventService:        service.NewEventService(eventStorage, registrationStorage, reminderStorage),
		registrationService: service.NewEventRegistrationService(registrationStorage, eventStorage),
		logger:              s.Logger,
	}
}

func (h Handler) Setup(mux *http.ServeMux, middle *middlewares.Handler) {
	mux.HandleFunc("GET /api/events", middle.Authorized(h.list))
	mux.HandleFunc("GET /api/events/{id}", middle.Authorized(h.get))
	mux.HandleFunc("POST /api/events", middle.Admin(h.create))
	mux.HandleFunc("PUT /api/events/{id}", middle.Admin(h.update))
	mux.HandleFunc("DELETE /api/events/{id}", middle.Admin(h.delete))

	mux.HandleFunc("POST /api/events/{id}/register", middle.Authorized(h.register))
	mux.HandleFunc("DELETE /api/events/{id}/registration", middle.Authorized(h.unregister))
	mux.HandleFunc("GET /api/registrations", middle.Authorized(h.myRegistrations))
}

func (h Handler) list(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context(), middlewares.User(r).ID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "", response.M{"count": len(events), "events": events})
}

func (h Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Event not found")
		return
	}

	event, err := h.eventService.Get(r.Context(), id, middlewares.User(r).ID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "", response.M{"event": event})
}

func (h Handler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.EventInput
	if err := response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	user := middlewares.User(r)
	event, err := h.eventService.Create(r.Context(), user.ID, req)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	h.logger.Infof("Event created (event_id=%d, admin_id=%d)", event.ID, user.ID)
	response.OK(w, http.StatusCreated, "Event created successfully", response.M{"event": event})
}

func (h Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Event not found")
		return
	}
	var req dto.EventInput
	if err = response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	event, err := h.eventService.Update(r.Context(), id, middlewares.User(r).ID, req)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "Event updated successfully", response.M{"event": event})
}

func (h Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Event not found")
		return
	}

	if err = h.eventService.Delete(r.Context(), id); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	h.logger.Infof("Event deleted (event_id=%d, admin_id=%d)", id, middlewares.User(r).ID)
	response.OK(w, http.StatusOK, "Event deleted successfully", nil)
}

func (h Handler) register(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Event not found")
		return
	}
	var req dto.RegistrationInput
	if err = response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	registration, err := h.registrationService.Register(r.Context(), middlewares.User(r), id, req)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusCreated, "Successfully registered for event", response.M{
		"registration": dto.NewRegistrationFromEntity(*registration),
	})
}

func (h Handler) unregister(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Registration not found")
		return
	}

	if err = h.registrationService.Unregister(r.Context(), middlewares.User(r).ID, id); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "Registration cancelled successfully", nil)
}

func (h Handler) myRegistrations(w http.ResponseWriter, r *http.Request) {
	registrations, err := h.registrationService.GetByUserID(r.Context(), middlewares.User(r).ID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	views := make([]dto.Registration, 0, len(registrations))
	for _, registration := range registrations {
		views = append(views, dto.NewRegistrationFromEntity(registration))
	}
	response.OK(w, http.StatusOK, "", response.M{"count": len(views), "registrations": views})
}
