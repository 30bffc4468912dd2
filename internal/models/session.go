package models

import "time"

// Defense session lifecycle states.
const (
	SessionStatusScheduled = "scheduled"
	SessionStatusOngoing   = "ongoing"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// DefenseSession is one scheduled evaluation event for a student group.
type DefenseSession struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CouncilID uint         `gorm:"not null;index" json:"council_id"`
	GroupID   uint         `gorm:"not null;index" json:"group_id"`
	StartTime time.Time    `json:"start_time"`
	EndTime   *time.Time   `json:"end_time"`
	Location  string       `gorm:"size:255" json:"location"`
	Status    string       `gorm:"size:32;not null;default:scheduled" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Council   Council      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Group     StudentGroup `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
