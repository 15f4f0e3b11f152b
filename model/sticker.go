package model

// Sticker associates a platform sticker file id with the user who kanged it.
// The composite key makes repeated kangs of the same sticker a no-op.
type Sticker struct {
	UserID    int64  `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	StickerID string `json:"sticker_id" gorm:"primaryKey;size:255"`
}
