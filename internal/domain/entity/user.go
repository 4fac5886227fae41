package entity

import "time"

type Role string

const (
	Admin   Role = "admin"
	Student Role = "student"
)

func (r Role) Valid() bool {
	return r == Admin || r == Student
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"not null" json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"not null;default:student" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}
