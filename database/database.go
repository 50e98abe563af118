package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// PrivilegedSource is the dbresolver name of the service-role connection.
const PrivilegedSource = "privileged"

type Database struct {
	db                      *gorm.DB
	profileRepo             *ProfileRepo
	projectRepo             *ProjectRepo
	projectGapRepo          *ProjectGapRepo
	gapContributorRepo      *GapContributorRepo
	projectUpdateRepo       *ProjectUpdateRepo
	featureSuggestionRepo   *FeatureSuggestionRepo
	bestPracticeRepo        *BestPracticeRepo
	bestPracticeCommentRepo *BestPracticeCommentRepo
	bestPracticeRequestRepo *BestPracticeRequestRepo
	feedbackRepo            *FeedbackRepo
	feedbackCommentRepo     *FeedbackCommentRepo
	favoriteRepo            *FavoriteRepo
	authEventRepo           *AuthEventRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                      db,
		profileRepo:             NewProfileRepo(db),
		projectRepo:             NewProjectRepo(db),
		projectGapRepo:          NewProjectGapRepo(db),
		gapContributorRepo:      NewGapContributorRepo(db),
		projectUpdateRepo:       NewProjectUpdateRepo(db),
		featureSuggestionRepo:   NewFeatureSuggestionRepo(db),
		bestPracticeRepo:        NewBestPracticeRepo(db),
		bestPracticeCommentRepo: NewBestPracticeCommentRepo(db),
		bestPracticeRequestRepo: NewBestPracticeRequestRepo(db),
		feedbackRepo:            NewFeedbackRepo(db),
		feedbackCommentRepo:     NewFeedbackCommentRepo(db),
		favoriteRepo:            NewFavoriteRepo(db),
		authEventRepo:           NewAuthEventRepo(db),
	}
}

// Privileged returns a handle that bypasses row level security. When no privileged source is
// registered it is the default pool.
func (d Database) Privileged() Database {
	if _, ok := d.db.Config.Plugins[(&dbresolver.DBResolver{}).Name()]; !ok {
		return d
	}
	return New(d.db.Clauses(dbresolver.Use(PrivilegedSource), dbresolver.Write).Session(&gorm.Session{}))
}

// Ping checks connectivity.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Accessor methods for each repository

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectGapRepo() *ProjectGapRepo {
	return d.projectGapRepo
}

func (d Database) GapContributorRepo() *GapContributorRepo {
	return d.gapContributorRepo
}

func (d Database) ProjectUpdateRepo() *ProjectUpdateRepo {
	return d.projectUpdateRepo
}

func (d Database) FeatureSuggestionRepo() *FeatureSuggestionRepo {
	return d.featureSuggestionRepo
}

func (d Database) BestPracticeRepo() *BestPracticeRepo {
	return d.bestPracticeRepo
}

func (d Database) BestPracticeCommentRepo() *BestPracticeCommentRepo {
	return d.bestPracticeCommentRepo
}

func (d Database) BestPracticeRequestRepo() *BestPracticeRequestRepo {
	return d.bestPracticeRequestRepo
}

func (d Database) FeedbackRepo() *FeedbackRepo {
	return d.feedbackRepo
}

func (d Database) FeedbackCommentRepo() *FeedbackCommentRepo {
	return d.feedbackCommentRepo
}

func (d Database) FavoriteRepo() *FavoriteRepo {
	return d.favoriteRepo
}

func (d Database) AuthEventRepo() *AuthEventRepo {
	return d.authEventRepo
}
