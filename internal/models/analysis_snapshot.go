package models

import (
	"time"

	"gorm.io/datatypes"
)

// Snapshot kinds recorded by the analysis pipeline.
const (
	SnapshotKindAnalysis = "analysis"
	SnapshotKindReport   = "report"
)

// AnalysisSnapshot is an audit row capturing the outcome of one pipeline run.
// The pipeline writes these best-effort; they are never read back on the hot path.
type AnalysisSnapshot struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	SessionID uint              `gorm:"not null;index" json:"session_id"`
	Kind      string            `gorm:"size:32;not null" json:"kind"`
	Outcome   string            `gorm:"size:64;not null" json:"outcome"`
	Result    datatypes.JSONMap `json:"result"`
	Model     string            `gorm:"size:128" json:"model"`
	CreatedAt time.Time         `json:"created_at"`
}
