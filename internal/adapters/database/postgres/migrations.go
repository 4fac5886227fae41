package postgres

import "github.com/mevent/event-manager/backend/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.User{},
	&entity.Event{},
	&entity.EventRegistration{},
	&entity.Reminder{},
}
