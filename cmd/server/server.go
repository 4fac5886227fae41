package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mevent/event-manager/backend/internal/adapters/config"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/scheduler"
	"github.com/mevent/event-manager/backend/internal/adapters/database/postgres"
	"github.com/mevent/event-manager/backend/internal/adapters/database/redis"
	"github.com/mevent/event-manager/backend/internal/domain/service"
	"github.com/mevent/event-manager/backend/pkg/logger"
	"github.com/mevent/event-manager/backend/pkg/logger/types"
	"github.com/mevent/event-manager/backend/pkg/smtp"
	"github.com/mevent/event-manager/backend/pkg/token"
	"gorm.io/gorm"
)

type Mailer interface {
	Send(ctx context.Context, msg smtp.Message) error
}

// Server owns every long-lived dependency of the API process.
type Server struct {
	Mux       *http.ServeMux
	HTTP      *http.Server
	DB        *gorm.DB
	Redis     *redis.Client
	Mailer    Mailer
	Tokens    *token.Manager
	Logger    *types.Logger
	Settings  config.Settings
	Reminders *scheduler.ReminderScheduler
}

func New(cfg *config.Config) (*Server, error) {
	serverLogger, err := logger.Named("server")
	if err != nil {
		return nil, err
	}
	smtpLogger, err := logger.Named("smtp")
	if err != nil {
		return nil, err
	}
	remindersLogger, err := logger.Named("reminders")
	if err != nil {
		return nil, err
	}
	schedulerLogger, err := logger.Named("scheduler")
	if err != nil {
		return nil, err
	}

	mailer := smtp.NewClient(cfg.SMTPDialer, smtp.Options{
		From:    cfg.Settings.SMTP.Email,
		Domain:  cfg.Settings.SMTP.Domain,
		Timeout: cfg.Settings.Reminders.SendTimeout,
	}, smtpLogger)

	return Assemble(serverLogger, cfg.Settings, cfg.Database, cfg.Redis, mailer, remindersLogger, schedulerLogger), nil
}

// Assemble wires a Server from already opened dependencies.
func Assemble(
	log *types.Logger,
	settings config.Settings,
	db *gorm.DB,
	redisClient *redis.Client,
	mailer Mailer,
	remindersLogger *types.Logger,
	schedulerLogger *types.Logger,
) *Server {
	mux := http.NewServeMux()

	notifyService := service.NewNotifyService(remindersLogger, postgres.NewReminderStorage(db), mailer)

	return &Server{
		Mux: mux,
		HTTP: &http.Server{
			Addr:              settings.HTTPAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		DB:       db,
		Redis:    redisClient,
		Mailer:   mailer,
		Tokens:   token.NewManager(settings.JWT.Secret, settings.JWT.AccessTTL, settings.JWT.RefreshTTL),
		Logger:   log,
		Settings: settings,
		Reminders: scheduler.NewReminderScheduler(schedulerLogger, notifyService, scheduler.Options{
			Interval:    settings.Reminders.Interval,
			StopTimeout: settings.Reminders.StopTimeout,
		}),
	}
}

// Start runs the reminder scheduler and serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.Settings.Reminders.Enabled {
		s.Reminders.Start()
	} else {
		s.Logger.Info("Reminder scheduler is disabled")
	}

	s.Logger.Infof("Server starting on %s", s.HTTP.Addr)
	if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the scheduler, letting a running pass finish, and then drains
// HTTP connections until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Reminders.Stop()
	err := s.HTTP.Shutdown(ctx)

	if s.DB != nil {
		if sqlDB, errDB := s.DB.DB(); errDB == nil {
			_ = sqlDB.Close()
		}
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	return err
}
