package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/grouppal/grouppal/model"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database        string
	connectAttempts int
	connectBackoff  time.Duration
}

const POSTGRES_SVC = "postgres_svc"

const (
	defaultConnectAttempts = 3
	defaultConnectBackoff  = 5 * time.Second
)

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

// Db Access to the raw gorm handle
func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "grouppal"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			host, user, password, dbname, port, sslmode)
	}

	ds.connectAttempts = defaultConnectAttempts
	if v := os.Getenv("DB_CONNECT_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ds.connectAttempts = n
		}
	}

	ds.connectBackoff = defaultConnectBackoff
	if v := os.Getenv("DB_CONNECT_BACKOFF_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ds.connectBackoff = time.Duration(n) * time.Second
		}
	}

	return ds.DefaultService.Configure(ctx)
}

// Start opens the connection, retrying with a fixed backoff, then migrates
// the schema. Exhausting the retries is fatal for the process.
func (ds *PostgresService) Start() (err error) {
	for attempt := 1; attempt <= ds.connectAttempts; attempt++ {
		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
		if err == nil {
			if sqlDB, dbErr := ds.db.DB(); dbErr == nil {
				if pingErr := sqlDB.Ping(); pingErr == nil {
					break
				} else {
					err = pingErr
				}
			} else {
				err = dbErr
			}
		}

		if attempt == ds.connectAttempts {
			log.Printf("Failed to connect to database after %d attempts: %v", ds.connectAttempts, err)
			return err
		}

		log.Printf("Database connection failed (attempt %d/%d): %v. Retrying in %v...",
			attempt, ds.connectAttempts, err, ds.connectBackoff)
		time.Sleep(ds.connectBackoff)
	}

	if err = ds.migrate(); err != nil {
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) migrate() error {
	err := ds.db.AutoMigrate(
		&model.Filter{},
		&model.Sticker{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
	}
	return err
}

func (ds *PostgresService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// ==================== FILTERS ====================

// UpsertFilter adds a trigger/reply pair, overwriting the reply if the
// trigger already exists. The conflict clause keeps concurrent upserts on
// the same trigger from interleaving.
func (ds *PostgresService) UpsertFilter(trigger, reply string) error {
	f := model.Filter{Trigger: trigger, Reply: reply}
	err := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trigger"}},
		DoUpdates: clause.AssignmentColumns([]string{"reply"}),
	}).Create(&f).Error
	return ds.HandleError(err)
}

func (ds *PostgresService) ListFilters() ([]model.Filter, error) {
	var filters []model.Filter
	if err := ds.db.Find(&filters).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return filters, nil
}

func (ds *PostgresService) DeleteFilter(trigger string) error {
	err := ds.db.Where("trigger = ?", trigger).Delete(&model.Filter{}).Error
	return ds.HandleError(err)
}

// ==================== STICKERS ====================

// AddStickerIfAbsent is idempotent on the (user, sticker) pair.
func (ds *PostgresService) AddStickerIfAbsent(userID int64, stickerID string) error {
	s := model.Sticker{UserID: userID, StickerID: stickerID}
	err := ds.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error
	return ds.HandleError(err)
}

func (ds *PostgresService) ListStickers(userID int64) ([]string, error) {
	var stickerIDs []string
	err := ds.db.Model(&model.Sticker{}).
		Where("user_id = ?", userID).
		Pluck("sticker_id", &stickerIDs).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return stickerIDs, nil
}

// ==================== AUDIT LOG ====================

func (ds *PostgresService) AppendLog(userID int64, action string) error {
	entry := model.AuditLog{
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
	return ds.HandleError(ds.db.Create(&entry).Error)
}

// ListRecentLogs returns the newest entries first, capped at limit.
func (ds *PostgresService) ListRecentLogs(limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := ds.db.Order("timestamp DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return entries, nil
}

// ==================== ERROR MAPPING ====================

func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var errorType string
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		errorType = "TRANSACTION_ERROR"
	default:
		errorType = "INTERNAL_ERROR"
	}

	log.WithFields(log.Fields{
		"error_type": errorType,
		"error":      err.Error(),
	}).Error("Database operation failed")

	return fmt.Errorf("%s: %w", errorType, err)
}
