// Package migration runs named, ordered schema migrations and records them in
// the bistro_migrations table.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
//	}
//
// and are applied with `bistro migrate`, reverted a batch at a time with
// `bistro migrate:rollback`.
package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/neubistro/bistro/pkg/logger"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "bistro_migrations" }

type named struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []named
)

// Register adds a migration to the global registry. Names are
// timestamp-prefixed and applied in lexical order.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, named{name: name, m: m})
}

// ErrNotRegistered is returned by Rollback when the batch contains a
// migration this binary does not know.
var ErrNotRegistered = errors.New("migration not registered")

// Runner applies and reverts migrations against one database.
type Runner struct {
	db         *gorm.DB
	out        io.Writer
	migrations []named
}

// New returns a Runner over a snapshot of the registry. Progress is written
// to out.
func New(db *gorm.DB, out io.Writer) *Runner {
	mu.Lock()
	snapshot := append([]named(nil), registry...)
	mu.Unlock()

	sort.SliceStable(snapshot, func(i, j int) bool { return snapshot[i].name < snapshot[j].name })
	return &Runner{db: db, out: out, migrations: snapshot}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Pending returns the names of migrations not yet applied.
func (r *Runner) Pending(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, n := range r.migrations {
		if _, ok := done[n.name]; !ok {
			names = append(names, n.name)
		}
	}
	return names, nil
}

// Run applies every pending migration as one batch.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return err
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return err
	}
	batch++

	applied := 0
	for _, n := range r.migrations {
		if _, ok := done[n.name]; ok {
			continue
		}

		fmt.Fprintf(r.out, "  migrating  %s\n", n.name)
		if err := n.m.Up(r.db.WithContext(ctx)); err != nil {
			return fmt.Errorf("migration: %s up: %w", n.name, err)
		}
		if err := r.db.WithContext(ctx).Create(&record{Name: n.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", n.name, err)
		}
		applied++
	}

	if applied == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}
	logger.Info("migrations applied", "count", applied, "batch", batch)
	return nil
}

// Rollback reverts the most recent batch, newest first.
func (r *Runner) Rollback(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var rows []record
	if err := r.db.WithContext(ctx).
		Where("batch = ?", batch).
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	known := make(map[string]Migration, len(r.migrations))
	for _, n := range r.migrations {
		known[n.name] = n.m
	}

	for _, row := range rows {
		m, ok := known[row.Name]
		if !ok {
			return fmt.Errorf("migration: %s: %w", row.Name, ErrNotRegistered)
		}

		fmt.Fprintf(r.out, "  rolling back  %s\n", row.Name)
		if err := m.Down(r.db.WithContext(ctx)); err != nil {
			return fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.WithContext(ctx).Delete(&row).Error; err != nil {
			return fmt.Errorf("migration: forget %s: %w", row.Name, err)
		}
	}

	logger.Info("migrations rolled back", "count", len(rows), "batch", batch)
	return nil
}

// Status writes a table of every known migration and its batch.
func (r *Runner) Status(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 78))
	for _, n := range r.migrations {
		if row, ok := done[n.name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", n.name, "Ran", row.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", n.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var last struct{ Max int }
	err := r.db.WithContext(ctx).
		Model(&record{}).
		Select("COALESCE(MAX(batch), 0) AS max").
		Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return last.Max, nil
}
