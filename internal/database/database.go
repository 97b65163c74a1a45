package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/zaeeeeeem/nodejs-learning-backend/internal/config"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the database connection
var DB *gorm.DB

// Initialize opens the configured store and installs it as DB.
func Initialize(cfg config.DatabaseConfig, environment string, tracing bool) error {
	gormLogger := gormlogger.Default.LogMode(gormlogger.Warn)
	if environment == "development" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if tracing {
		if err := db.Use(telemetry.GORMTracingPlugin()); err != nil {
			return fmt.Errorf("failed to install tracing plugin: %w", err)
		}
	}

	DB = db
	logger.Log.Info("Database connected", zap.String("driver", cfg.Driver))
	return nil
}

// OpenSQLite opens a SQLite database. In-memory databases are pinned to a
// single connection so every query sees the same data.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate runs auto-migration for all models on DB
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := MigrateDB(DB); err != nil {
		return err
	}
	logger.Log.Info("Database migrations completed")
	return nil
}

// MigrateDB creates tables and indexes on db.
func MigrateDB(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Comment{},
		&models.Tweet{},
		&models.Playlist{},
		&models.PlaylistVideo{},
		&models.Like{},
		&models.Subscription{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// createIndexes creates query indexes and the unique indexes the toggle
// operations rely on. The statements are valid on both PostgreSQL and SQLite.
func createIndexes(db *gorm.DB) error {
	required := []string{
		// One like per (user, target); NULL target columns never collide.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_video_actor ON likes (liked_by_id, video_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_comment_actor ON likes (liked_by_id, comment_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_likes_tweet_actor ON likes (liked_by_id, tweet_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_pair ON subscriptions (subscriber_id, channel_id)",
	}
	for _, stmt := range required {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	// Listing indexes
	optional := []string{
		"CREATE INDEX IF NOT EXISTS idx_videos_published_created ON videos (is_published, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_videos_owner_created ON videos (owner_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_comments_video_created ON comments (video_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_tweets_owner_created ON tweets (owner_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_playlists_owner_created ON playlists (owner_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_playlist_videos_position ON playlist_videos (playlist_id, position)",
		"CREATE INDEX IF NOT EXISTS idx_subscriptions_channel ON subscriptions (channel_id, created_at DESC)",
	}
	for _, stmt := range optional {
		if err := db.Exec(stmt).Error; err != nil {
			logger.WarnWithFields("Failed to create index", err, zap.String("statement", stmt))
		}
	}
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}
