package handlers

import (
	"fmt"
	"strings"

	"github.com/grouppal/grouppal/dto"
	"github.com/grouppal/grouppal/shared"
)

// ModerationHandler serves the greeting, help, filter management, quoting
// and chat-id commands.
type ModerationHandler struct {
	platform  Platform
	filterSvc FilterServiceInterface
	audit     AuditFunc
}

func NewModerationHandler(platform Platform, filterSvc FilterServiceInterface, audit AuditFunc) *ModerationHandler {
	return &ModerationHandler{
		platform:  platform,
		filterSvc: filterSvc,
		audit:     audit,
	}
}

func (h *ModerationHandler) Start(ev dto.Event) error {
	return h.platform.SendText(ev.ChatID, shared.MsgWelcome)
}

func (h *ModerationHandler) Help(ev dto.Event) error {
	return h.platform.SendText(ev.ChatID, shared.MsgHelp)
}

// AddFilter handles /filter <word> <reply...>. Re-adding a trigger
// overwrites its reply.
func (h *ModerationHandler) AddFilter(ev dto.Event) error {
	if len(ev.Args) < 2 {
		return shared.Usage(shared.MsgUsageFilter)
	}

	trigger := ev.Args[0]
	reply := strings.Join(ev.Args[1:], " ")

	if err := h.filterSvc.Add(trigger, reply); err != nil {
		return err
	}
	if err := h.audit(ev.UserID, fmt.Sprintf("Added filter: %s", trigger)); err != nil {
		return err
	}

	return h.platform.SendText(ev.ChatID, fmt.Sprintf("✅ Filter added: '%s' -> '%s'", trigger, reply))
}

// Filters handles /filters (list) and /filters remove <word>.
func (h *ModerationHandler) Filters(ev dto.Event) error {
	if len(ev.Args) > 0 && strings.EqualFold(ev.Args[0], "remove") {
		return h.removeFilter(ev)
	}

	filters, err := h.filterSvc.List()
	if err != nil {
		return err
	}
	if len(filters) == 0 {
		return h.platform.SendText(ev.ChatID, shared.MsgNoFilters)
	}

	lines := make([]string, 0, len(filters)+1)
	lines = append(lines, shared.MsgFiltersHeader)
	for _, f := range filters {
		lines = append(lines, fmt.Sprintf("• %s -> %s", f.Trigger, f.Reply))
	}
	return h.platform.SendText(ev.ChatID, strings.Join(lines, "\n"))
}

func (h *ModerationHandler) removeFilter(ev dto.Event) error {
	if len(ev.Args) < 2 {
		return shared.Usage(shared.MsgUsageFilterRemove)
	}

	trigger := ev.Args[1]
	if err := h.filterSvc.Remove(trigger); err != nil {
		return err
	}
	if err := h.audit(ev.UserID, fmt.Sprintf("Removed filter: %s", trigger)); err != nil {
		return err
	}

	return h.platform.SendText(ev.ChatID, fmt.Sprintf("🗑️ Filter '%s' removed.", trigger))
}

// Quote echoes the replied-to message with its author and timestamp.
func (h *ModerationHandler) Quote(ev dto.Event) error {
	if ev.ReplyTo == nil {
		return shared.Usage(shared.MsgUsageQuote)
	}

	quoted := ev.ReplyTo
	text := quoted.Text
	if text == "" {
		text = "No text"
	}
	author := quoted.Author
	timestamp := quoted.SentAt.Format(shared.TimestampFormat)

	if err := h.audit(ev.UserID, fmt.Sprintf("Quoted message ID: %d", quoted.MessageID)); err != nil {
		return err
	}

	return h.platform.SendText(ev.ChatID,
		fmt.Sprintf("📌 [Quote from @%s at %s]\n“%s”", author, timestamp, text))
}

func (h *ModerationHandler) ChatID(ev dto.Event) error {
	return h.platform.SendText(ev.ChatID, fmt.Sprintf("Chat ID: %d", ev.ChatID))
}
