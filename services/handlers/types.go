package handlers

import (
	"github.com/grouppal/grouppal/model"
)

// Button is one inline-keyboard entry; Data comes back verbatim as the
// callback payload when pressed.
type Button struct {
	Label string
	Data  string
}

// Platform is the slice of the messaging platform the handlers need.
type Platform interface {
	SendText(chatID int64, text string) error
	SendKeyboard(chatID int64, text string, rows [][]Button) error
	SendSticker(chatID int64, stickerID string) error
	SendStickerBytes(chatID int64, name string, data []byte) error
	AnswerCallback(callbackID string) error
	ChatAdministrators(chatID int64) ([]int64, error)
	FileBytes(fileID string) ([]byte, error)
}

// AuditFunc appends one action to the audit log for the acting user. The
// pipeline supplies it so handlers never talk to the store or the audit
// mirror directly.
type AuditFunc func(userID int64, action string) error

type FilterServiceInterface interface {
	Add(trigger, reply string) error
	List() ([]model.Filter, error)
	Remove(trigger string) error
	Match(text string, filters []model.Filter) []model.Filter
}

type StickerServiceInterface interface {
	Kang(userID int64, stickerID string) error
	Collection(userID int64) ([]string, error)
}

type AuditServiceInterface interface {
	Recent(limit int) ([]model.AuditLog, error)
}

type MemeServiceInterface interface {
	Render(src []byte, caption string) ([]byte, error)
}

// ArchiveFunc receives a rendered meme for fire-and-forget archival.
type ArchiveFunc func(data []byte)
