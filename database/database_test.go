package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/appcollab/appcollab-backend/models"
)

func openTestDB(t *testing.T) Database {
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
	if err := models.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return New(db)
}

func addProfile(t *testing.T, d Database, username string) *models.Profile {
	t.Helper()
	p := &models.Profile{ID: uuid.New(), Username: username, FullName: username}
	if err := d.ProfileRepo().Add(context.Background(), p); err != nil {
		t.Fatalf("Failed to add profile: %v", err)
	}
	return p
}

func addProject(t *testing.T, d Database, owners ...uuid.UUID) *models.Project {
	t.Helper()
	p := &models.Project{Title: "Project", Description: "Desc", OwnerIDs: owners}
	if err := d.ProjectRepo().Add(context.Background(), p); err != nil {
		t.Fatalf("Failed to add project: %v", err)
	}
	return p
}

func TestSoftDeleteHidesAndFreezes(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	owner := addProfile(t, d, "owner")
	project := addProject(t, d, owner.ID)

	if err := d.ProjectRepo().SoftDelete(ctx, project.ID); err != nil {
		t.Fatalf("Failed to soft delete: %v", err)
	}

	if _, err := d.ProjectRepo().FindByID(ctx, project.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound after delete, got %v", err)
	}
	projects, err := d.ProjectRepo().FindAll(ctx, ProjectFilter{})
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(projects) != 0 {
		t.Errorf("Expected deleted project to be hidden, got %d", len(projects))
	}

	err = d.ProjectRepo().Update(ctx, project.ID, map[string]interface{}{"title": "Revived"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected update of deleted row to fail with ErrRecordNotFound, got %v", err)
	}
	if err := d.ProjectRepo().SoftDelete(ctx, project.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected second delete to fail with ErrRecordNotFound, got %v", err)
	}

	var raw models.Project
	if err := d.db.Unscoped().First(&raw, "id = ?", project.ID).Error; err != nil {
		t.Fatalf("Failed to read raw row: %v", err)
	}
	if raw.Title != "Project" || !raw.DeletedAt.Valid {
		t.Errorf("Expected frozen, deleted row, got title=%q deleted=%v", raw.Title, raw.DeletedAt.Valid)
	}
}

func TestProjectOwnerFilter(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	alice := addProfile(t, d, "alice")
	bob := addProfile(t, d, "bob")
	addProject(t, d, alice.ID)
	shared := addProject(t, d, alice.ID, bob.ID)

	mine, err := d.ProjectRepo().FindAll(ctx, ProjectFilter{OwnerID: bob.ID})
	if err != nil {
		t.Fatalf("Failed to filter by owner: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != shared.ID {
		t.Errorf("Expected only the shared project for bob, got %v", mine)
	}

	all, err := d.ProjectRepo().FindAll(ctx, ProjectFilter{OwnerID: alice.ID})
	if err != nil {
		t.Fatalf("Failed to filter by owner: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 projects for alice, got %d", len(all))
	}
}

func TestProfileSkillFilter(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	gopher := addProfile(t, d, "gopher")
	addProfile(t, d, "designer")
	skills := []string{"go", "sql"}
	if err := d.ProfileRepo().Update(ctx, gopher.ID, models.ProfileUpdate{Skills: &skills}); err != nil {
		t.Fatalf("Failed to update skills: %v", err)
	}

	found, err := d.ProfileRepo().FindAll(ctx, "go")
	if err != nil {
		t.Fatalf("Failed to filter by skill: %v", err)
	}
	if len(found) != 1 || found[0].ID != gopher.ID {
		t.Errorf("Expected only gopher, got %v", found)
	}
}

func TestSequentialUpvotesIncrementByOne(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	author := addProfile(t, d, "author")
	request := &models.BestPracticeRequest{UserID: author.ID, Title: "Testing tips"}
	if err := d.BestPracticeRequestRepo().Add(ctx, request); err != nil {
		t.Fatalf("Failed to add request: %v", err)
	}

	for i := 1; i <= 3; i++ {
		updated, err := d.BestPracticeRequestRepo().Upvote(ctx, request.ID)
		if err != nil {
			t.Fatalf("Failed to upvote: %v", err)
		}
		if updated.Upvotes != i {
			t.Errorf("Expected %d upvotes, got %d", i, updated.Upvotes)
		}
		if updated.Author == nil || updated.Author.Username != "author" {
			t.Errorf("Expected author summary on upvoted row, got %+v", updated.Author)
		}
	}

	if err := d.BestPracticeRequestRepo().SoftDelete(ctx, request.ID); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if _, err := d.BestPracticeRequestRepo().Upvote(ctx, request.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected upvote of deleted request to fail, got %v", err)
	}
}

func TestBestPracticeUpvoteRequiresPublished(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	author := addProfile(t, d, "writer")
	draft := &models.BestPractice{UserID: author.ID, Title: "Draft"}
	if err := d.BestPracticeRepo().Add(ctx, draft); err != nil {
		t.Fatalf("Failed to add: %v", err)
	}

	if _, err := d.BestPracticeRepo().Upvote(ctx, draft.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected upvote of draft to be refused, got %v", err)
	}

	err := d.BestPracticeRepo().Update(ctx, draft.ID, map[string]interface{}{"status": models.BestPracticePublished})
	if err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}
	updated, err := d.BestPracticeRepo().Upvote(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Failed to upvote: %v", err)
	}
	if updated.Upvotes != 1 {
		t.Errorf("Expected 1 upvote, got %d", updated.Upvotes)
	}
}

func TestGapContributorUniquenessIgnoresWithdrawn(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	owner := addProfile(t, d, "owner")
	helper := addProfile(t, d, "helper")
	project := addProject(t, d, owner.ID)
	gap := &models.ProjectGap{ProjectID: project.ID, GapType: models.GapTypeDesign, CreatedBy: owner.ID}
	if err := d.ProjectGapRepo().Add(ctx, gap); err != nil {
		t.Fatalf("Failed to add gap: %v", err)
	}

	first := &models.GapContributor{GapID: gap.ID, UserID: helper.ID}
	if err := d.GapContributorRepo().Add(ctx, first); err != nil {
		t.Fatalf("Failed to contribute: %v", err)
	}
	dup := &models.GapContributor{GapID: gap.ID, UserID: helper.ID}
	if err := d.GapContributorRepo().Add(ctx, dup); err == nil {
		t.Error("Expected duplicate active contributor to violate the unique index")
	}

	if err := d.GapContributorRepo().SoftDelete(ctx, first.ID); err != nil {
		t.Fatalf("Failed to withdraw: %v", err)
	}
	again := &models.GapContributor{GapID: gap.ID, UserID: helper.ID}
	if err := d.GapContributorRepo().Add(ctx, again); err != nil {
		t.Errorf("Expected rejoin after withdrawal to succeed, got %v", err)
	}

	contributors, err := d.GapContributorRepo().FindByGap(ctx, gap.ID)
	if err != nil {
		t.Fatalf("Failed to list contributors: %v", err)
	}
	if len(contributors) != 1 || contributors[0].Contributor == nil || contributors[0].Contributor.Username != "helper" {
		t.Errorf("Expected one contributor with profile summary, got %+v", contributors)
	}
}

func TestRequestsOrderedByUpvotes(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	author := addProfile(t, d, "asker")
	quiet := &models.BestPracticeRequest{UserID: author.ID, Title: "Quiet"}
	popular := &models.BestPracticeRequest{UserID: author.ID, Title: "Popular"}
	for _, r := range []*models.BestPracticeRequest{quiet, popular} {
		if err := d.BestPracticeRequestRepo().Add(ctx, r); err != nil {
			t.Fatalf("Failed to add request: %v", err)
		}
	}
	if _, err := d.BestPracticeRequestRepo().Upvote(ctx, quiet.ID); err != nil {
		t.Fatalf("Failed to upvote: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := d.BestPracticeRequestRepo().Upvote(ctx, popular.ID); err != nil {
			t.Fatalf("Failed to upvote: %v", err)
		}
	}

	requests, err := d.BestPracticeRequestRepo().FindAll(ctx, "")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(requests) != 2 || requests[0].ID != popular.ID {
		t.Errorf("Expected popular request first, got %+v", requests)
	}
}

func TestCommentsOldestFirst(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	author := addProfile(t, d, "commenter")
	feedback := &models.Feedback{UserID: author.ID, Title: "Dark mode", Content: "Please"}
	if err := d.FeedbackRepo().Add(ctx, feedback); err != nil {
		t.Fatalf("Failed to add feedback: %v", err)
	}

	for _, content := range []string{"first", "second"} {
		c := &models.FeedbackComment{FeedbackID: feedback.ID, UserID: author.ID, Content: content}
		if err := d.FeedbackCommentRepo().Add(ctx, c); err != nil {
			t.Fatalf("Failed to add comment: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	comments, err := d.FeedbackCommentRepo().FindByFeedback(ctx, feedback.ID)
	if err != nil {
		t.Fatalf("Failed to list comments: %v", err)
	}
	if len(comments) != 2 || comments[0].Content != "first" {
		t.Fatalf("Expected comments oldest first, got %+v", comments)
	}
	if comments[0].Author == nil || comments[0].Author.Username != "commenter" {
		t.Errorf("Expected author summary, got %+v", comments[0].Author)
	}
}

func TestProfileUpsertRevivesAndSetsRole(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	p := addProfile(t, d, "returning")
	if err := d.ProfileRepo().SoftDelete(ctx, p.ID); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	err := d.Privileged().ProfileRepo().Upsert(ctx, &models.Profile{ID: p.ID, Username: "returned", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	got, err := d.ProfileRepo().FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("Expected revived profile, got %v", err)
	}
	if got.Role != models.RoleAdmin || got.Username != "returned" {
		t.Errorf("Expected renamed admin, got %s/%s", got.Username, got.Role)
	}
}

func TestFavoritesSkipRemovedProjects(t *testing.T) {
	ctx := context.Background()
	d := openTestDB(t)
	user := addProfile(t, d, "fan")
	kept := addProject(t, d, user.ID)
	removed := addProject(t, d, user.ID)
	for _, p := range []*models.Project{kept, removed} {
		if err := d.FavoriteRepo().Add(ctx, &models.Favorite{UserID: user.ID, ProjectID: p.ID}); err != nil {
			t.Fatalf("Failed to favorite: %v", err)
		}
	}
	if err := d.ProjectRepo().SoftDelete(ctx, removed.ID); err != nil {
		t.Fatalf("Failed to delete project: %v", err)
	}

	favorites, err := d.FavoriteRepo().FindByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to list favorites: %v", err)
	}
	if len(favorites) != 1 || favorites[0].ProjectID != kept.ID {
		t.Errorf("Expected only the live project, got %+v", favorites)
	}

	if err := d.FavoriteRepo().Remove(ctx, user.ID, kept.ID); err != nil {
		t.Fatalf("Failed to remove favorite: %v", err)
	}
	if err := d.FavoriteRepo().Remove(ctx, user.ID, kept.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("Expected second remove to report ErrRecordNotFound, got %v", err)
	}
}
