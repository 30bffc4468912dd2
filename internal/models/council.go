package models

import "time"

// Lecturer represents a staff member who can sit on defense councils.
type Lecturer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Title     string    `gorm:"size:128" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Council is a committee of lecturers evaluating defenses for a major.
type Council struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	MajorID   uint      `gorm:"not null" json:"major_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Major     Major     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// CouncilMember assigns a lecturer to a council with a role label.
// Inactive rows are retired assignments kept for history.
type CouncilMember struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CouncilID  uint      `gorm:"not null;index" json:"council_id"`
	LecturerID uint      `gorm:"not null" json:"lecturer_id"`
	Role       string    `gorm:"size:64;not null" json:"role"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Lecturer   Lecturer  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"lecturer"`
}
