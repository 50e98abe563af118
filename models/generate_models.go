package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report Usage:

Set GENERATE_COLUMN_REPORT=true and start the binary. For every table the report lists the
columns that exist in the database but have no field on the matching model, e.g.

	=== COLUMN MISMATCH REPORT ===
	--- Table: projects ---
	Found 1 columns not accounted for in model:
	  - legacy_slug

	=== SUMMARY ===
	Total mismatched columns across all tables: 1
*/

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&Project{},
		&ProjectGap{},
		&GapContributor{},
		&ProjectUpdate{},
		&FeatureSuggestion{},
		&BestPractice{},
		&BestPracticeComment{},
		&BestPracticeRequest{},
		&Feedback{},
		&FeedbackComment{},
		&Favorite{},
		&AuthEvent{},
	}
}

// Migrate creates or alters every table.
func Migrate(db *gorm.DB) error {
	return db.Session(&gorm.Session{SkipDefaultTransaction: true}).AutoMigrate(All()...)
}

func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	fmt.Println("Migrating models...")
	if err := Migrate(db); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	fmt.Println("Database migration completed successfully!")

	if _, err := GenerateColumnMismatchReport(db, os.Stdout); err != nil {
		return err
	}

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport writes the report to w and returns the number of unmapped columns.
func GenerateColumnMismatchReport(db *gorm.DB, w io.Writer) (int, error) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	total := 0
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return total, fmt.Errorf("parse model %T: %w", model, err)
		}
		tableName := stmt.Schema.Table
		fmt.Fprintf(w, "\n--- Table: %s ---\n", tableName)

		if !db.Migrator().HasTable(model) {
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return total, fmt.Errorf("error getting columns for table %s: %w", tableName, err)
		}
		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		mismatches := findColumnMismatches(dbColumns, stmt.Schema.DBNames)
		if len(mismatches) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(w, "  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return total, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	known := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		known[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !known[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
