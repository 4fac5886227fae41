package dashboard

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

type dashboardService interface {
	UserStats(ctx context.Context, user entity.User) (*dto.UserStats, error)
	AdminDashboard(ctx context.Context) (*dto.AdminDashboard, error)
}

type Handler struct {
	dashboardService dashboardService
	logger           *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		dashboardService: service.NewDashboardService(
			postgres.NewUserStorage(s.DB),
			postgres.NewEventStorage(s.DB),
			postgres.NewEventRegistrationStorage(s.DB),
			postgres.NewReminderStorage(s.DB),
		),
		logger: s.Logger,
	}
}

func (h Handler) Setup(mux *http.ServeMux, middle *middlewares.Handler) {
	mux.HandleFunc("GET /api/dashboard", middle.Authorized(h.dashboard))
	mux.HandleFunc("GET /api/admin/dashboard", middle.Admin(h.adminDashboard))
}

func (h Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	user := middlewares.User(r)
	stats, err := h.dashboardService.UserStats(r.Context(), user)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "", response.M{"stats": stats, "user": user})
}

func (h Handler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboardService.AdminDashboard(r.Context())
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.OK(w, http.StatusOK, "", response.M{
		"stats":                      data.Stats,
		"event_registration_details": data.EventRegistrationDetails,
		"top_events":                 data.TopEvents,
	})
}
