package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mevent/event-manager/backend/internal/adapters/config"
	"github.com/mevent/event-manager/backend/internal/adapters/controller/runner"
	"github.com/mevent/event-manager/backend/internal/adapters/database/postgres"
	"github.com/mevent/event-manager/backend/internal/domain/service"
	"github.com/mevent/event-manager/backend/pkg/logger"
	"github.com/mevent/event-manager/backend/pkg/smtp"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	app := &cli.App{
		Name:  "reminders",
		Usage: "Deliver due event reminders on demand.",
		Commands: []*cli.Command{
			sendCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "reminders: %v\n", err)
		os.Exit(1)
	}
}

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Send reminders that are due now or within the next few minutes.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Show what would be sent without actually sending."},
			&cli.IntFlag{Name: "minutes-before", Value: 0, Usage: "Also send reminders due within the next N minutes."},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Get()

			remindersLogger, err := logger.Named("reminders")
			if err != nil {
				return err
			}
			smtpLogger, err := logger.Named("smtp")
			if err != nil {
				return err
			}

			mailer := smtp.NewClient(cfg.SMTPDialer, smtp.Options{
				From:    cfg.Settings.SMTP.Email,
				Domain:  cfg.Settings.SMTP.Domain,
				Timeout: cfg.Settings.Reminders.SendTimeout,
			}, smtpLogger)
			engine := service.NewNotifyService(remindersLogger, postgres.NewReminderStorage(cfg.Database), mailer)

			if c.Bool("dry-run") {
				remindersLogger.Info("Performing a dry run. No reminders will be sent.")
			}

			_, err = runner.Run(c.Context, engine, os.Stdout, time.Now(), runner.Options{
				DryRun:        c.Bool("dry-run"),
				MinutesBefore: c.Int("minutes-before"),
			})
			return err
		},
	}
}
