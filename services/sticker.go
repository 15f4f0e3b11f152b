package services

import (
	"github.com/alphabatem/common/context"
)

// StickerService maintains per-user sticker collections.
type StickerService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const STICKER_SVC = "sticker_svc"

func (svc StickerService) Id() string {
	return STICKER_SVC
}

func (svc *StickerService) Configure(ctx *context.Context) error {
	svc.sqlSvc = ctx.Service(POSTGRES_SVC).(*PostgresService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *StickerService) Start() error {
	return nil
}

// Kang stores a sticker reference for the user. Kanging the same sticker
// twice is a no-op.
func (svc *StickerService) Kang(userID int64, stickerID string) error {
	return svc.sqlSvc.AddStickerIfAbsent(userID, stickerID)
}

func (svc *StickerService) Collection(userID int64) ([]string, error) {
	return svc.sqlSvc.ListStickers(userID)
}
