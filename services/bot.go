package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/grouppal/grouppal/dto"
	"github.com/grouppal/grouppal/services/handlers"
	"github.com/grouppal/grouppal/shared"
)

// BotService is the moderation pipeline: the single entry point for every
// inbound chat event. Commands dispatch to their handler; plain text runs
// through the filter matcher; media runs through the rate limiter; button
// presses resolve sticker callbacks.
type BotService struct {
	context.DefaultService

	platform   handlers.Platform
	filterSvc  *FilterService
	stickerSvc *StickerService
	auditSvc   *AuditService
	rateSvc    *RateLimitService
	memeSvc    *MemeService
	archiveSvc *MediaArchiveService

	moderation *handlers.ModerationHandler
	stickers   *handlers.StickerHandler
	admin      *handlers.AdminHandler

	dispatch map[string]func(dto.Event) error

	auditChatID int64
	// invoked after every successful audit write; failures never propagate
	onLogWritten func(userID int64, action string)
}

const BOT_SVC = "bot_svc"

func (svc BotService) Id() string {
	return BOT_SVC
}

func (svc *BotService) Configure(ctx *context.Context) error {
	svc.filterSvc = ctx.Service(FILTER_SVC).(*FilterService)
	svc.stickerSvc = ctx.Service(STICKER_SVC).(*StickerService)
	svc.auditSvc = ctx.Service(AUDIT_SVC).(*AuditService)
	svc.rateSvc = ctx.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.memeSvc = ctx.Service(MEME_SVC).(*MemeService)
	svc.archiveSvc = ctx.Service(MEDIA_ARCHIVE_SVC).(*MediaArchiveService)

	if v := os.Getenv("AUDIT_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid AUDIT_CHAT_ID %q: %w", v, err)
		}
		svc.auditChatID = chatID
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *BotService) Start() error {
	svc.platform = svc.Service(TELEGRAM_SVC).(*TelegramService)
	svc.wire()
	return nil
}

// wire builds the handlers and the command dispatch table on top of the
// already-resolved services.
func (svc *BotService) wire() {
	svc.moderation = handlers.NewModerationHandler(svc.platform, svc.filterSvc, svc.logAction)
	svc.stickers = handlers.NewStickerHandler(svc.platform, svc.stickerSvc, svc.memeSvc, svc.logAction, svc.archiveMeme)
	svc.admin = handlers.NewAdminHandler(svc.platform, svc.auditSvc)

	if svc.auditChatID != 0 {
		svc.onLogWritten = svc.mirrorToAuditChat
	}

	svc.dispatch = map[string]func(dto.Event) error{
		shared.CmdStart:       svc.moderation.Start,
		shared.CmdHelp:        svc.moderation.Help,
		shared.CmdFilter:      svc.moderation.AddFilter,
		shared.CmdFilters:     svc.moderation.Filters,
		shared.CmdQuote:       svc.moderation.Quote,
		shared.CmdGetChatID:   svc.moderation.ChatID,
		shared.CmdKang:        svc.stickers.Kang,
		shared.CmdStickerpack: svc.stickers.Stickerpack,
		shared.CmdMmf:         svc.stickers.Mmf,
		shared.CmdLogs:        svc.admin.Logs,
	}
}

// HandleEvent processes one inbound event to completion, including the
// user-facing reply for any failure. Safe for concurrent use; the platform
// adapter calls it from one goroutine per event.
func (svc *BotService) HandleEvent(ev dto.Event) {
	botEventsTotal.WithLabelValues(string(ev.Kind)).Inc()

	var err error
	switch ev.Kind {
	case dto.EventCommand:
		err = svc.handleCommand(ev)
	case dto.EventText:
		err = svc.handleText(ev)
	case dto.EventMedia:
		svc.handleMedia(ev)
	case dto.EventCallback:
		err = svc.stickers.Callback(ev)
	default:
		log.WithField("kind", ev.Kind).Warn("Dropping event of unknown kind")
	}

	if err != nil {
		svc.reportFailure(ev, err)
	}
}

func (svc *BotService) handleCommand(ev dto.Event) error {
	handler, ok := svc.dispatch[ev.Command]
	if !ok {
		// unknown commands are a platform-level no-op
		return nil
	}

	botCommandsTotal.WithLabelValues(ev.Command).Inc()

	started := time.Now()
	err := handler(ev)
	botCommandDurationSeconds.WithLabelValues(ev.Command).Observe(time.Since(started).Seconds())
	return err
}

// handleText runs the filter matcher. Every matching filter replies
// independently; a match never short-circuits the rest.
func (svc *BotService) handleText(ev dto.Event) error {
	filters, err := svc.filterSvc.List()
	if err != nil {
		return err
	}

	for _, f := range svc.filterSvc.Match(ev.Text, filters) {
		botFilterMatchesTotal.Inc()

		if err := svc.platform.SendText(ev.ChatID, f.Reply); err != nil {
			return err
		}
		if err := svc.logAction(ev.UserID, fmt.Sprintf("Triggered filter: %s", f.Trigger)); err != nil {
			return err
		}
	}
	return nil
}

// handleMedia only consults the rate limiter; media never reaches the
// filter matcher. A throttled event gets the warning and nothing else.
func (svc *BotService) handleMedia(ev dto.Event) {
	info := svc.rateSvc.Observe(ev.UserID)
	if info.Allowed {
		return
	}

	botThrottledTotal.Inc()
	log.WithFields(log.Fields{
		"event_id": ev.ID,
		"user_id":  ev.UserID,
		"count":    info.Count,
	}).Info("Throttled media message")

	if err := svc.platform.SendText(ev.ChatID, shared.MsgThrottled); err != nil {
		log.WithError(err).WithField("event_id", ev.ID).Error("Failed to send throttle warning")
	}
}

// logAction appends to the audit log and, on success, fires the mirror
// hook. The write commits before the calling handler acknowledges the
// command; the hook is fire-and-forget.
func (svc *BotService) logAction(userID int64, action string) error {
	if err := svc.auditSvc.Append(userID, action); err != nil {
		return err
	}

	if svc.onLogWritten != nil {
		go svc.onLogWritten(userID, action)
	}
	return nil
}

func (svc *BotService) mirrorToAuditChat(userID int64, action string) {
	text := fmt.Sprintf("🗒️ User %d: %s", userID, action)
	if err := svc.platform.SendText(svc.auditChatID, text); err != nil {
		log.WithError(err).WithField("audit_chat_id", svc.auditChatID).Warn("Audit mirror send failed")
	}
}

func (svc *BotService) archiveMeme(data []byte) {
	if svc.archiveSvc != nil {
		svc.archiveSvc.StoreAsync(data)
	}
}

// reportFailure turns a handler error into the user-facing reply: usage
// hints and user errors carry their own text, everything else is logged
// and answered with the generic failure message.
func (svc *BotService) reportFailure(ev dto.Event, err error) {
	if appErr, ok := shared.GetAppError(err); ok {
		switch appErr.Kind {
		case shared.KindUsage:
			if sendErr := svc.platform.SendText(ev.ChatID, appErr.Message); sendErr != nil {
				log.WithError(sendErr).WithField("event_id", ev.ID).Error("Failed to send usage hint")
			}
			return
		case shared.KindUser:
			log.WithError(appErr.Err).WithFields(log.Fields{
				"event_id": ev.ID,
				"command":  ev.Command,
			}).Warn("Command failed")
			if sendErr := svc.platform.SendText(ev.ChatID, appErr.Message); sendErr != nil {
				log.WithError(sendErr).WithField("event_id", ev.ID).Error("Failed to send error reply")
			}
			return
		}
	}

	botHandlerErrorsTotal.WithLabelValues(string(ev.Kind)).Inc()
	log.WithError(err).WithFields(log.Fields{
		"event_id": ev.ID,
		"kind":     ev.Kind,
		"command":  ev.Command,
		"user_id":  ev.UserID,
	}).Error("Event handling failed")

	if sendErr := svc.platform.SendText(ev.ChatID, shared.MsgGenericFailure); sendErr != nil {
		log.WithError(sendErr).WithField("event_id", ev.ID).Error("Failed to send failure reply")
	}
}
