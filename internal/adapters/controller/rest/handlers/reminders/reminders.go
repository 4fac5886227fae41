package reminders

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

type reminderService interface {
	Set(ctx context.Context, userID, eventID uint, lead entity.LeadTime) (*entity.Reminder, error)
	Cancel(ctx context.Context, userID, eventID uint) error
	GetPending(ctx context.Context, userID uint) ([]entity.Reminder, error)
}

type Handler struct {
	reminderService reminderService
	logger          *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		reminderService: service.NewReminderService(
			postgres.NewReminderStorage(s.DB),
			postgres.NewEventStorage(s.DB),
		),
		logger: s.Logger,
	}
}

func (h Handler) Setup(mux *http.ServeMux, middle *middlewares.Handler) {
	mux.HandleFunc("POST /api/events/{id}/reminder", middle.Authorized(h.set))
	mux.HandleFunc("DELETE /api/events/{id}/reminder", middle.Authorized(h.cancel))
	mux.HandleFunc("GET /api/reminders", middle.Authorized(h.pending))
}

func (h Handler) set(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Event not found")
		return
	}
	var req struct {
		Timing entity.LeadTime `json:"timing"`
	}
	if err = response.Decode(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	user := middlewares.User(r)
	reminder, err := h.reminderService.Set(r.Context(), user.ID, id, req.Timing)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	timing := req.Timing
	if timing == "" {
		timing = entity.DefaultLeadTime
	}
	h.logger.Infof("Reminder set (user_id=%d, event_id=%d, remind_at=%s)", user.ID, id, reminder.RemindAt.UTC())
	response.OK(w, http.StatusCreated, "Reminder set successfully for "+timing.Display(), response.M{
		"reminder": dto.NewReminderFromEntity(*reminder),
	})
}

func (h Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := response.PathID(r, "id")
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Reminder not found")
		return
	}

	if err = h.reminderService.Cancel(r.Context(), middlewares.User(r).ID, id); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "Reminder cancelled successfully", nil)
}

func (h Handler) pending(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminderService.GetPending(r.Context(), middlewares.User(r).ID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	views := make([]dto.Reminder, 0, len(reminders))
	for _, reminder := range reminders {
		views = append(views, dto.NewReminderFromEntity(reminder))
	}
	response.OK(w, http.StatusOK, "", response.M{"count": len(views), "reminders": views})
}
