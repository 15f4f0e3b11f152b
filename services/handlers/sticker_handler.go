package handlers

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/grouppal/grouppal/dto"
	"github.com/grouppal/grouppal/shared"
)

// StickerHandler serves the sticker collection and meme commands plus the
// sticker-pack button callbacks.
type StickerHandler struct {
	platform   Platform
	stickerSvc StickerServiceInterface
	memeSvc    MemeServiceInterface
	audit      AuditFunc
	archive    ArchiveFunc
}

func NewStickerHandler(platform Platform, stickerSvc StickerServiceInterface, memeSvc MemeServiceInterface, audit AuditFunc, archive ArchiveFunc) *StickerHandler {
	return &StickerHandler{
		platform:   platform,
		stickerSvc: stickerSvc,
		memeSvc:    memeSvc,
		audit:      audit,
		archive:    archive,
	}
}

// Kang stores the replied-to sticker in the caller's collection.
func (h *StickerHandler) Kang(ev dto.Event) error {
	if ev.ReplyTo == nil || ev.ReplyTo.Attachment == nil ||
		ev.ReplyTo.Attachment.Kind != dto.AttachmentSticker {
		return shared.Usage(shared.MsgUsageKang)
	}

	if err := h.stickerSvc.Kang(ev.UserID, ev.ReplyTo.Attachment.FileID); err != nil {
		return err
	}
	if err := h.audit(ev.UserID, "Kangged a sticker"); err != nil {
		return err
	}

	return h.platform.SendText(ev.ChatID, shared.MsgKangDone)
}

// Stickerpack sends the caller's collection as an inline keyboard, one
// button per sticker.
func (h *StickerHandler) Stickerpack(ev dto.Event) error {
	stickers, err := h.stickerSvc.Collection(ev.UserID)
	if err != nil {
		return err
	}
	if len(stickers) == 0 {
		return h.platform.SendText(ev.ChatID, shared.MsgEmptyPack)
	}

	rows := make([][]Button, 0, len(stickers))
	for i, stickerID := range stickers {
		rows = append(rows, []Button{{
			Label: fmt.Sprintf("Sticker %d", i+1),
			Data:  shared.CallbackStickerPrefix + stickerID,
		}})
	}

	return h.platform.SendKeyboard(ev.ChatID, shared.MsgPackHeader, rows)
}

// Callback resolves a sticker-pack button press and sends the chosen
// sticker back to the conversation.
func (h *StickerHandler) Callback(ev dto.Event) error {
	if err := h.platform.AnswerCallback(ev.CallbackID); err != nil {
		log.WithError(err).WithField("event_id", ev.ID).Warn("Failed to answer callback query")
	}

	if !strings.HasPrefix(ev.CallbackData, shared.CallbackStickerPrefix) {
		return nil
	}
	stickerID := strings.TrimPrefix(ev.CallbackData, shared.CallbackStickerPrefix)
	if stickerID == "" {
		return nil
	}

	return h.platform.SendSticker(ev.ChatID, stickerID)
}

// Mmf renders the replied-to image/sticker/GIF with the caption and sends
// the result back as a sticker.
func (h *StickerHandler) Mmf(ev dto.Event) error {
	if len(ev.Args) == 0 || ev.ReplyTo == nil {
		return shared.Usage(shared.MsgUsageMmf)
	}
	if ev.ReplyTo.Attachment == nil {
		return shared.Usage(shared.MsgMmfWrongMedia)
	}

	caption := strings.Join(ev.Args, " ")

	src, err := h.platform.FileBytes(ev.ReplyTo.Attachment.FileID)
	if err != nil {
		return shared.UserError(shared.MsgMemeFailed, err)
	}

	meme, err := h.memeSvc.Render(src, caption)
	if err != nil {
		return shared.UserError(shared.MsgMemeFailed, err)
	}

	if h.archive != nil {
		h.archive(meme)
	}

	if err := h.audit(ev.UserID, fmt.Sprintf("Created meme with text: %s", caption)); err != nil {
		return err
	}

	return h.platform.SendStickerBytes(ev.ChatID, "meme.png", meme)
}
