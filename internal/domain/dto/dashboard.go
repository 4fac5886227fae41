package dto

// EventRegistrationCount is an event row annotated with its registration count.
type EventRegistrationCount struct {
	EventID           uint   `json:"event_id"`
	Title             string `json:"event_title"`
	Date              string `json:"event_date"`
	Time              string `json:"event_time,omitempty"`
	Location          string `json:"event_location,omitempty"`
	Category          string `json:"event_category,omitempty"`
	MaxParticipants   int    `json:"max_participants,omitempty"`
	IsActive          bool   `json:"is_active"`
	RegistrationCount int64  `json:"registration_count"`
}

type UserStats struct {
	TotalEvents     int64  `json:"total_events"`
	MyRegistrations int64  `json:"my_registrations"`
	MyReminders     int64  `json:"my_reminders"`
	EventsCreated   *int64 `json:"events_created,omitempty"`
	TotalUsers      *int64 `json:"total_users,omitempty"`
}

type AdminStats struct {
	TotalUsers          int64 `json:"total_users"`
	TotalStudents       int64 `json:"total_students"`
	TotalAdmins         int64 `json:"total_admins"`
	TotalEvents         int64 `json:"total_events"`
	ActiveEvents        int64 `json:"active_events"`
	TotalRegistrations  int64 `json:"total_registrations"`
	RecentRegistrations int64 `json:"recent_registrations"`
	RecentEvents        int64 `json:"recent_events"`
}

type EventRegistrationDetails struct {
	EventRegistrationCount
	IsFull        bool           `json:"is_full"`
	Registrations []Registration `json:"registrations"`
}

type AdminDashboard struct {
	Stats                    AdminStats                 `json:"stats"`
	EventRegistrationDetails []EventRegistrationDetails `json:"event_registration_details"`
	TopEvents                []EventRegistrationCount   `json:"top_events"`
}
