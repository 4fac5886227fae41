package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	postgresStorage "github.com/mevent/event-manager/backend/internal/adapters/database/postgres"
	"github.com/mevent/event-manager/backend/internal/adapters/database/redis"
	"github.com/mevent/event-manager/backend/internal/domain/utils/location"
	"github.com/mevent/event-manager/backend/pkg/logger"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const envPrefix = "EVENTMANAGER"

type Config struct {
	Database   *gorm.DB
	Redis      *redis.Client
	SMTPDialer *gomail.Dialer
	Settings   Settings
}

// Settings are the non-connection values read from config.yaml and the environment.
type Settings struct {
	Debug bool

	HTTPAddr string

	Reminders RemindersSettings
	OTP       OTPSettings
	JWT       JWTSettings
	SMTP      SMTPSettings
}

type RemindersSettings struct {
	Enabled     bool
	Interval    time.Duration
	SendTimeout time.Duration
	StopTimeout time.Duration
}

type OTPSettings struct {
	TTL       time.Duration
	PerMinute int
}

type JWTSettings struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type SMTPSettings struct {
	Email  string
	Domain string
}

func setDefaults() {
	viper.SetDefault("settings.debug", false)
	viper.SetDefault("settings.log-to-file", false)
	viper.SetDefault("settings.logs-dir", "logs")
	viper.SetDefault("settings.reminders.enabled", true)
	viper.SetDefault("settings.reminders.interval", 5*time.Minute)
	viper.SetDefault("settings.reminders.send-timeout", 30*time.Second)
	viper.SetDefault("settings.reminders.stop-timeout", 5*time.Second)
	viper.SetDefault("settings.otp.ttl", 10*time.Minute)
	viper.SetDefault("settings.otp.per-minute", 3)
	viper.SetDefault("service.http.addr", ":8000")
	viper.SetDefault("service.database.port", 5432)
	viper.SetDefault("service.redis.port", 6379)
	viper.SetDefault("service.smtp.port", 587)
	viper.SetDefault("service.jwt.access-ttl", time.Hour)
	viper.SetDefault("service.jwt.refresh-ttl", 7*24*time.Hour)
}

func initConfig() {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	setDefaults()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
	}
}

// Load reads configuration and initializes the global logger without opening any
// connection.
func Load() Settings {
	initConfig()

	err := logger.Init(logger.Config{
		Debug:        viper.GetBool("settings.debug"),
		TimeLocation: location.Location(),
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
	})
	if err != nil {
		panic(err)
	}

	return Settings{
		Debug:    viper.GetBool("settings.debug"),
		HTTPAddr: viper.GetString("service.http.addr"),
		Reminders: RemindersSettings{
			Enabled:     viper.GetBool("settings.reminders.enabled"),
			Interval:    viper.GetDuration("settings.reminders.interval"),
			SendTimeout: viper.GetDuration("settings.reminders.send-timeout"),
			StopTimeout: viper.GetDuration("settings.reminders.stop-timeout"),
		},
		OTP: OTPSettings{
			TTL:       viper.GetDuration("settings.otp.ttl"),
			PerMinute: viper.GetInt("settings.otp.per-minute"),
		},
		JWT: JWTSettings{
			Secret:     viper.GetString("service.jwt.secret"),
			AccessTTL:  viper.GetDuration("service.jwt.access-ttl"),
			RefreshTTL: viper.GetDuration("service.jwt.refresh-ttl"),
		},
		SMTP: SMTPSettings{
			Email:  viper.GetString("service.smtp.email"),
			Domain: viper.GetString("service.smtp.domain"),
		},
	}
}

// Get loads configuration and opens the database, redis and SMTP dialer. It
// panics through the logger when a dependency is unreachable.
func Get() *Config {
	settings := Load()

	var gormConfig *gorm.Config
	if settings.Debug {
		newLogger := gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
		gormConfig = &gorm.Config{
			Logger:         newLogger,
			TranslateError: true,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
			TranslateError: true,
		}
	}

	dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable TimeZone=UTC",
		viper.GetString("service.database.user"),
		viper.GetString("service.database.password"),
		viper.GetString("service.database.name"),
		viper.GetString("service.database.host"),
		viper.GetInt("service.database.port"),
	)

	database, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		logger.Log.Panicf("Failed to connect to the database: %v", err)
	} else {
		logger.Log.Info("Successfully connected to the database")
	}

	errMigrate := database.AutoMigrate(postgresStorage.Migrations...)
	if errMigrate != nil {
		logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	redisClient, err := redis.New(ctx, redis.Options{
		Host:     viper.GetString("service.redis.host"),
		Port:     viper.GetInt("service.redis.port"),
		Password: viper.GetString("service.redis.password"),
	})
	if err != nil {
		logger.Log.Panicf("Failed to connect to redis: %v", err)
	} else {
		logger.Log.Info("Successfully connected to redis")
	}

	dialer := gomail.NewDialer(
		viper.GetString("service.smtp.host"),
		viper.GetInt("service.smtp.port"),
		viper.GetString("service.smtp.email"),
		viper.GetString("service.smtp.password"),
	)

	return &Config{
		Database:   database,
		Redis:      redisClient,
		SMTPDialer: dialer,
		Settings:   settings,
	}
}
