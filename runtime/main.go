package main

import (
	"github.com/grouppal/grouppal/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file found, using system environment")
	}

	ctx, err := context.NewCtx(
		&services.PostgresService{},
		&services.AuditService{},
		&services.FilterService{},
		&services.StickerService{},
		&services.RateLimitService{},
		&services.MemeService{},
		&services.MediaArchiveService{},
		&services.MonitoringService{},
		&services.BotService{},

		&services.TelegramService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service runtime exited")
		return
	}
}
