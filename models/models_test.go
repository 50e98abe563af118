package models

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestEnumValidation(t *testing.T) {
	if !ProjectStatusSeekingHelp.Valid() || ProjectStatus("abandoned").Valid() {
		t.Error("ProjectStatus validation is wrong")
	}
	if !GapTypeData.Valid() || GapType("legal").Valid() {
		t.Error("GapType validation is wrong")
	}
	if !ContributorHelping.Valid() || ContributorStatus("").Valid() {
		t.Error("ContributorStatus validation is wrong")
	}
	if !BestPracticeArchived.Valid() || BestPracticeStatus("deleted").Valid() {
		t.Error("BestPracticeStatus validation is wrong")
	}
	if !RequestFulfilled.Valid() || RequestStatus("done").Valid() {
		t.Error("RequestStatus validation is wrong")
	}
	if !SuggestionImplemented.Valid() || SuggestionStatus("maybe").Valid() {
		t.Error("SuggestionStatus validation is wrong")
	}
	if !FeedbackBug.Valid() || FeedbackCategory("rant").Valid() {
		t.Error("FeedbackCategory validation is wrong")
	}
	if !RoleAdmin.Valid() || Role("root").Valid() {
		t.Error("Role validation is wrong")
	}
}

func TestMigrateAndDefaults(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	owner := uuid.New()
	project := Project{Title: "Matchmaker", Description: "Find teammates", OwnerIDs: []uuid.UUID{owner}}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	if project.ID == uuid.Nil {
		t.Error("Expected BeforeCreate to assign an ID")
	}
	if project.Status != ProjectStatusIdea {
		t.Errorf("Expected default status idea, got %s", project.Status)
	}

	var loaded Project
	if err := db.First(&loaded, "id = ?", project.ID).Error; err != nil {
		t.Fatalf("Failed to reload project: %v", err)
	}
	if len(loaded.Owners()) != 1 || loaded.Owners()[0] != owner {
		t.Errorf("Expected owner set to round-trip, got %v", loaded.OwnerIDs)
	}

	bp := BestPractice{UserID: owner, Title: "Ship daily"}
	if err := db.Create(&bp).Error; err != nil {
		t.Fatalf("Failed to create best practice: %v", err)
	}
	if bp.Status != BestPracticeDraft || bp.IsPublished() {
		t.Errorf("Expected a draft, got %s", bp.Status)
	}
}

func TestColumnMismatchReport(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	if err := db.Exec("ALTER TABLE projects ADD COLUMN legacy_slug text").Error; err != nil {
		t.Fatalf("Failed to add column: %v", err)
	}

	var out bytes.Buffer
	total, err := GenerateColumnMismatchReport(db, &out)
	if err != nil {
		t.Fatalf("Failed to generate report: %v", err)
	}
	if total != 1 {
		t.Errorf("Expected 1 mismatch, got %d\n%s", total, out.String())
	}
	if !strings.Contains(out.String(), "legacy_slug") {
		t.Errorf("Expected report to name legacy_slug, got\n%s", out.String())
	}
}

func TestProfileUpdateColumns(t *testing.T) {
	name := "Ada"
	skills := []string{"go"}
	cols := ProfileUpdate{FullName: &name, Skills: &skills}.Columns()
	if len(cols) != 2 {
		t.Fatalf("Expected 2 columns, got %v", cols)
	}
	if cols["full_name"] != "Ada" {
		t.Errorf("Unexpected full_name: %v", cols["full_name"])
	}
}
