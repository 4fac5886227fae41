package setup

import (
	"net/http"

	"github.com/mevent/event-manager/backend/cmd/server"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/handlers/auth"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/handlers/dashboard"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/handlers/events"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/handlers/middlewares"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/handlers/reminders"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/response"
)

func Setup(s *server.Server) {
	middle := middlewares.New(s)

	s.Mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, http.StatusOK, "", response.M{"status": "ok"})
	})

	auth.New(s).Setup(s.Mux, middle)
	events.New(s).Setup(s.Mux, middle)
	reminders.New(s).Setup(s.Mux, middle)
	dashboard.New(s).Setup(s.Mux, middle)

	s.HTTP.Handler = middle.Log(s.Mux)
}
