package middlewares

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/mevent/event-manager/backend/cmd/server"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/rest/response"
	"github.com/mevent/event-manager/backend/internal/adapters/database/postgres"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"github.com/mevent/event-manager/backend/pkg/logger/types"
	"github.com/mevent/event-manager/backend/pkg/token"
)

type contextKey string

const userKey contextKey = "user"

type userStorage interface {
	Get(ctx context.Context, id uint) (*entity.User, error)
}

type Handler struct {
	tokens      *token.Manager
	userStorage userStorage
	logger      *types.Logger
}

func New(s *server.Server) *Handler {
	return &Handler{
		tokens:      s.Tokens,
		userStorage: postgres.NewUserStorage(s.DB),
		logger:      s.Logger,
	}
}

// User returns the authenticated user stored by Authorized.
func User(r *http.Request) entity.User {
	user, _ := r.Context().Value(userKey).(entity.User)
	return user
}

func WithUser(ctx context.Context, user entity.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// Authorized requires a valid Bearer access token of an active user.
func (h Handler) Authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.Fail(w, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := h.tokens.Parse(tokenString, token.Access)
		if err != nil {
			response.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			response.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := h.userStorage.Get(r.Context(), userID)
		if err != nil || !user.IsActive {
			response.Fail(w, http.StatusUnauthorized, "User not found or inactive")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *user)))
	}
}

// Admin requires an authorized admin.
func (h Handler) Admin(next http.HandlerFunc) http.HandlerFunc {
	return h.Authorized(func(w http.ResponseWriter, r *http.Request) {
		if user := User(r); !user.IsAdmin() {
			response.Fail(w, http.StatusForbidden, "Only admins can perform this action")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Log writes one debug line per request and turns panics into 500s.
func (h Handler) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				h.logger.Errorf("panic serving %s %s: %v\n%s", r.Method, r.URL.Path, p, debug.Stack())
				response.Fail(rec, http.StatusInternalServerError, "Internal server error")
			}
			h.logger.Debugf("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
		}()

		next.ServeHTTP(rec, r)
	})
}
