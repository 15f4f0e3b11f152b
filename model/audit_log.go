package model

import "time"

// AuditLog is an append-only record of moderation actions. Rows are never
// updated after insert; timestamps are server-assigned in UTC.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"not null;index"`
	Action    string    `json:"action" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}
