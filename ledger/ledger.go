package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/esd-univr/hif-core-sub007/manipulation"
)

// Ledger persists manipulation.Result values, grounded on db/sqlite.go's
// Connect (directory creation, AutoMigrate on open) and internal/db/migrate.go's
// per-run table split (runs / diagnostics / checkpoints).
type Ledger struct {
	db *gorm.DB
}

// Open connects to the sqlite database at dsn, creating its parent directory
// if needed, and migrates the ledger schema.
func Open(dsn string, debug bool) (*Ledger, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("ledger: create database directory: %w", err)
			}
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("ledger: connect: %w", err)
	}
	if err := db.AutoMigrate(&Run{}, &Diagnostic{}, &Checkpoint{}); err != nil {
		return nil, fmt.Errorf("ledger: migrate: %w", err)
	}
	return &Ledger{db: db}, nil
}

// RecordRun persists one manipulation pass's Result under the given pass
// name, returning the generated run ID.
func (l *Ledger) RecordRun(pass string, res *manipulation.Result) (string, error) {
	run := Run{
		ID:         uuid.NewString(),
		Pass:       pass,
		Status:     string(res.Status),
		IsFixed:    res.IsFixed,
		NodesSeen:  res.Stats.NodesVisited,
		NodesFixed: res.Stats.NodesFixed,
		Duration:   res.Stats.Duration,
	}
	for _, d := range res.Diagnostics {
		run.Diagnostics = append(run.Diagnostics, Diagnostic{
			Severity: d.Severity,
			Message:  d.Message,
			NodeDesc: d.NodeDesc,
		})
	}
	if err := l.db.Create(&run).Error; err != nil {
		return "", fmt.Errorf("ledger: record run: %w", err)
	}
	return run.ID, nil
}

// Checkpoint records a named snapshot point against an existing run.
func (l *Ledger) Checkpoint(runID, name string, meta []byte) error {
	cp := Checkpoint{ID: uuid.NewString(), RunID: runID, Name: name, Meta: meta}
	if err := l.db.Create(&cp).Error; err != nil {
		return fmt.Errorf("ledger: record checkpoint: %w", err)
	}
	return nil
}

// Runs returns every recorded run for a pass, most recent first.
func (l *Ledger) Runs(pass string) ([]Run, error) {
	var runs []Run
	q := l.db.Order("started_at desc")
	if pass != "" {
		q = q.Where("pass = ?", pass)
	}
	if err := q.Preload("Diagnostics").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("ledger: list runs: %w", err)
	}
	return runs, nil
}

// Close releases the underlying sql.DB connection.
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
