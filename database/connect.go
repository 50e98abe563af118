package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/appcollab/appcollab-backend/config"
)

// Open connects to the Supabase Postgres database described by c. When SUPABASE_SERVICE_DB_USER is
// set a second, service-role source is registered under PrivilegedSource.
func Open(c map[string]string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(c, "DB_SLOW_THRESHOLD_MS", 2000)) * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn(c, "SUPABASE_DB"),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:                              false,
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if config.GetString(c, "SUPABASE_SERVICE_DB_USER", "") != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Sources: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  dsn(c, "SUPABASE_SERVICE_DB"),
				PreferSimpleProtocol: true,
			})},
		}, PrivilegedSource)
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("register privileged source: %w", err)
		}
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}

// dsn builds a libpq connection string from <prefix>_HOST, _USER, _PASSWORD, _NAME and _PORT.
// Missing service-role values fall back to the primary ones.
func dsn(c map[string]string, prefix string) string {
	get := func(suffix, fallback string) string {
		return config.GetString(c, prefix+suffix, config.GetString(c, "SUPABASE_DB"+suffix, fallback))
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		get("_HOST", ""),
		get("_USER", ""),
		get("_PASSWORD", ""),
		get("_NAME", "postgres"),
		get("_PORT", "5432"),
		config.GetString(c, "SUPABASE_DB_SSLMODE", "require"),
	)
}
