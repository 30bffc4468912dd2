package models

import "time"

// Major represents an academic major that owns councils and rubric configuration.
type Major struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      string    `gorm:"size:32;uniqueIndex" json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rubric is one evaluation criterion configured for a major.
type Rubric struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MajorID     uint      `gorm:"not null;uniqueIndex:idx_rubric_major_name" json:"major_id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:idx_rubric_major_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Major       Major     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
