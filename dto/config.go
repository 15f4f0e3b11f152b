package dto

// BotConfig holds the bot's platform credentials and optional audit
// mirroring target, assembled from the environment at startup.
type BotConfig struct {
	Token       string `validate:"required"`
	AuditChatID int64  `validate:"omitempty"`
}

func (c BotConfig) Validate() error {
	return GetValidator().Struct(c)
}
