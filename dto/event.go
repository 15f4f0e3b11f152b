package dto

import "time"

type EventKind string

const (
	EventCommand  EventKind = "command"
	EventText     EventKind = "text"
	EventMedia    EventKind = "media"
	EventCallback EventKind = "callback"
)

type AttachmentKind string

const (
	AttachmentSticker   AttachmentKind = "sticker"
	AttachmentPhoto     AttachmentKind = "photo"
	AttachmentAnimation AttachmentKind = "animation"
)

// Attachment is a platform file reference carried by a message.
type Attachment struct {
	Kind   AttachmentKind `json:"kind"`
	FileID string         `json:"file_id"`
}

// ReplyContext describes the message an inbound event replies to.
type ReplyContext struct {
	MessageID  int         `json:"message_id"`
	UserID     int64       `json:"user_id"`
	Author     string      `json:"author"`
	Text       string      `json:"text"`
	SentAt     time.Time   `json:"sent_at"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Event is the normalized inbound chat event handed to the moderation
// pipeline. Exactly one Kind is set; Command/Args are populated for
// command events, CallbackID/CallbackData for button presses.
type Event struct {
	ID        string    `json:"id"` // correlation id, assigned at ingress
	Kind      EventKind `json:"kind"`
	UserID    int64     `json:"user_id"`
	ChatID    int64     `json:"chat_id"`
	MessageID int       `json:"message_id"`

	Text    string   `json:"text,omitempty"`
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`

	ReplyTo    *ReplyContext `json:"reply_to,omitempty"`
	Attachment *Attachment   `json:"attachment,omitempty"`

	CallbackID   string `json:"callback_id,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
}
