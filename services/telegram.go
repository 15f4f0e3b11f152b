package services

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/grouppal/grouppal/dto"
	"github.com/grouppal/grouppal/services/handlers"
)

// TelegramService is the platform adapter: it runs the long-poll update
// loop, normalizes updates into dto.Events for the pipeline, and
// implements the outbound Platform operations.
type TelegramService struct {
	context.DefaultService

	botSvc *BotService

	cfg        dto.BotConfig
	api        *tgbotapi.BotAPI
	httpClient *http.Client
}

const TELEGRAM_SVC = "telegram_svc"

const updateTimeoutSeconds = 30

func (svc TelegramService) Id() string {
	return TELEGRAM_SVC
}

func (svc *TelegramService) Configure(ctx *context.Context) error {
	svc.cfg = dto.BotConfig{
		Token: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
	if err := svc.cfg.Validate(); err != nil {
		return fmt.Errorf("telegram config: %w", err)
	}

	svc.httpClient = &http.Client{Timeout: 30 * time.Second}

	return svc.DefaultService.Configure(ctx)
}

// Start authorizes the bot and blocks on the update loop. Each update is
// handled on its own goroutine so a slow handler never stalls other
// users' events.
func (svc *TelegramService) Start() error {
	svc.botSvc = svc.Service(BOT_SVC).(*BotService)

	api, err := tgbotapi.NewBotAPI(svc.cfg.Token)
	if err != nil {
		return fmt.Errorf("telegram authorization: %w", err)
	}
	svc.api = api

	log.WithField("username", api.Self.UserName).Info("Telegram bot authorized")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeoutSeconds

	for update := range api.GetUpdatesChan(u) {
		go svc.handleUpdate(update)
	}
	return nil
}

func (svc *TelegramService) Shutdown() {
	if svc.api != nil {
		svc.api.StopReceivingUpdates()
	}
}

func (svc *TelegramService) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Recovered from panic while handling update")
		}
	}()

	ev, ok := svc.toEvent(update)
	if !ok {
		return
	}
	svc.botSvc.HandleEvent(ev)
}

// toEvent normalizes a raw update into the pipeline's event shape.
// Updates that carry nothing the pipeline cares about are dropped.
func (svc *TelegramService) toEvent(update tgbotapi.Update) (dto.Event, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
			return dto.Event{}, false
		}
		return dto.Event{
			ID:           uuid.NewString(),
			Kind:         dto.EventCallback,
			UserID:       cq.From.ID,
			ChatID:       cq.Message.Chat.ID,
			MessageID:    cq.Message.MessageID,
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
		}, true
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return dto.Event{}, false
	}

	ev := dto.Event{
		ID:        uuid.NewString(),
		UserID:    msg.From.ID,
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		ReplyTo:   replyContext(msg.ReplyToMessage),
	}

	switch {
	case msg.IsCommand():
		ev.Kind = dto.EventCommand
		ev.Command = strings.ToLower(msg.Command())
		ev.Args = strings.Fields(msg.CommandArguments())
	case attachmentOf(msg) != nil:
		ev.Kind = dto.EventMedia
		ev.Attachment = attachmentOf(msg)
	case msg.Text != "":
		ev.Kind = dto.EventText
		ev.Text = msg.Text
	default:
		return dto.Event{}, false
	}

	return ev, true
}

func replyContext(msg *tgbotapi.Message) *dto.ReplyContext {
	if msg == nil {
		return nil
	}

	rc := &dto.ReplyContext{
		MessageID:  msg.MessageID,
		SentAt:     msg.Time(),
		Attachment: attachmentOf(msg),
	}

	if msg.From != nil {
		rc.UserID = msg.From.ID
		rc.Author = msg.From.UserName
		if rc.Author == "" {
			rc.Author = msg.From.FirstName
		}
	}

	rc.Text = msg.Text
	if rc.Text == "" {
		rc.Text = msg.Caption
	}

	return rc
}

func attachmentOf(msg *tgbotapi.Message) *dto.Attachment {
	switch {
	case msg.Sticker != nil:
		return &dto.Attachment{Kind: dto.AttachmentSticker, FileID: msg.Sticker.FileID}
	case len(msg.Photo) > 0:
		// the last size is the largest
		return &dto.Attachment{Kind: dto.AttachmentPhoto, FileID: msg.Photo[len(msg.Photo)-1].FileID}
	case msg.Animation != nil:
		return &dto.Attachment{Kind: dto.AttachmentAnimation, FileID: msg.Animation.FileID}
	}
	return nil
}

// ==================== PLATFORM OPERATIONS ====================

func (svc *TelegramService) SendText(chatID int64, text string) error {
	_, err := svc.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (svc *TelegramService) SendKeyboard(chatID int64, text string, rows [][]handlers.Button) error {
	keyboardRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		keyboardRows = append(keyboardRows, buttons)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboardRows...)
	_, err := svc.api.Send(msg)
	return err
}

func (svc *TelegramService) SendSticker(chatID int64, stickerID string) error {
	_, err := svc.api.Send(tgbotapi.NewSticker(chatID, tgbotapi.FileID(stickerID)))
	return err
}

func (svc *TelegramService) SendStickerBytes(chatID int64, name string, data []byte) error {
	_, err := svc.api.Send(tgbotapi.NewSticker(chatID, tgbotapi.FileBytes{Name: name, Bytes: data}))
	return err
}

func (svc *TelegramService) AnswerCallback(callbackID string) error {
	_, err := svc.api.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

func (svc *TelegramService) ChatAdministrators(chatID int64) ([]int64, error) {
	members, err := svc.api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if m.User != nil {
			ids = append(ids, m.User.ID)
		}
	}
	return ids, nil
}

// FileBytes resolves the platform file reference and downloads its
// contents.
func (svc *TelegramService) FileBytes(fileID string) ([]byte, error) {
	file, err := svc.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("resolve file %s: %w", fileID, err)
	}

	resp, err := svc.httpClient.Get(file.Link(svc.api.Token))
	if err != nil {
		return nil, fmt.Errorf("fetch file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch file %s: unexpected status %d", fileID, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
