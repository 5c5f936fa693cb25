// Package ledger persists an audit trail of manipulation runs, grounded on
// models/models.go's Stage/Apply/Session shape: one row per pass
// invocation and one row per diagnostic it left behind, written through
// gorm.io/gorm exactly as the teacher's db layer does.
package ledger

import (
	"time"

	"gorm.io/datatypes"
)

// Run records one manipulation-pass invocation over a tree.
type Run struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Pass      string `gorm:"type:varchar(64);not null;index"`
	Status    string `gorm:"type:varchar(20);not null"`
	IsFixed   bool   `gorm:"not null"`
	NodesSeen int    `gorm:"not null"`
	NodesFixed int   `gorm:"not null"`
	Duration  time.Duration
	StartedAt time.Time `gorm:"autoCreateTime;index"`

	Diagnostics []Diagnostic `gorm:"foreignKey:RunID"`
}

// Diagnostic mirrors one manipulation.Diagnostic, persisted alongside the
// Run it belongs to.
type Diagnostic struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	RunID    string `gorm:"type:varchar(36);index;not null"`
	Severity string `gorm:"type:varchar(10);not null"`
	Message  string `gorm:"type:text;not null"`
	NodeDesc string `gorm:"type:text"`
}

// Checkpoint records a named snapshot point (e.g. "before-resolve-templates")
// callers can diff runs against, mirroring models.go's Checkpoint concept.
type Checkpoint struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	RunID     string `gorm:"type:varchar(36);index;not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	Meta      datatypes.JSON `gorm:"type:jsonb"`
}

func (Run) TableName() string        { return "runs" }
func (Diagnostic) TableName() string { return "diagnostics" }
func (Checkpoint) TableName() string { return "checkpoints" }
