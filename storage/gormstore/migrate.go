package gormstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/buildsite-backend/models"
)

/*
Column Mismatch Report:

After migrating, ColumnReport compares every table with its model and lists
columns that exist in the database but have no field in the Go struct. These
are usually left behind by a renamed field, since AutoMigrate never drops
columns. The report is logged at warn level and never fails startup.

Run it on its own with:

	buildsite migrate --report
*/

// Models lists every table owned by the gorm backend, in creation order.
func Models() []any {
	return []any{
		&models.User{},
		&models.WaitlistEntry{},
		&models.PageVisit{},
		&models.FormSubmission{},
		&models.Project{},
		&models.Service{},
		&models.CompanyInfo{},
		&models.ContactMessage{},
	}
}

// Migrate creates missing tables, columns and indexes. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	migrateDB := s.db.WithContext(ctx).Session(&gorm.Session{
		SkipDefaultTransaction: true,
	})
	if err := migrateDB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate %s: %w", s.dialect, err)
	}
	log.Info().Str("dialect", s.dialect).Int("tables", len(Models())).Msg("database migration completed")

	if _, err := s.ColumnReport(ctx); err != nil {
		log.Warn().Err(err).Msg("column mismatch report failed")
	}
	return nil
}

// ColumnReport returns, per table, the database columns no model field maps
// to. Tables with nothing extra are omitted.
func (s *Store) ColumnReport(ctx context.Context) (map[string][]string, error) {
	db := s.db.WithContext(ctx)
	report := make(map[string][]string)
	total := 0

	for _, model := range Models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(model) {
			log.Debug().Str("table", table).Msg("table does not exist yet")
			continue
		}
		columns, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("read columns of %s: %w", table, err)
		}

		mismatches := findColumnMismatches(columns, stmt.Schema.DBNames)
		if len(mismatches) == 0 {
			continue
		}
		report[table] = mismatches
		total += len(mismatches)
		log.Warn().Str("table", table).Strs("columns", mismatches).Msg("columns not accounted for in model")
	}

	if total > 0 {
		log.Warn().Int("total", total).Msg("column mismatch report")
	}
	return report, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(columns []gorm.ColumnType, modelFields []string) []string {
	known := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		known[field] = true
	}

	var mismatches []string
	for _, col := range columns {
		if !known[col.Name()] {
			mismatches = append(mismatches, col.Name())
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
