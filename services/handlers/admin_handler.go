package handlers

import (
	"fmt"
	"strings"

	"github.com/grouppal/grouppal/dto"
	"github.com/grouppal/grouppal/shared"
)

const recentLogLimit = 10

// AdminHandler serves the admin-gated commands.
type AdminHandler struct {
	platform Platform
	auditSvc AuditServiceInterface
}

func NewAdminHandler(platform Platform, auditSvc AuditServiceInterface) *AdminHandler {
	return &AdminHandler{
		platform: platform,
		auditSvc: auditSvc,
	}
}

// Logs replies with the ten most recent audit entries, newest first.
// Only chat administrators may call it; a failed admin lookup aborts the
// command (fail closed) rather than guessing either way.
func (h *AdminHandler) Logs(ev dto.Event) error {
	admins, err := h.platform.ChatAdministrators(ev.ChatID)
	if err != nil {
		return fmt.Errorf("admin check for chat %d: %w", ev.ChatID, err)
	}

	if !containsUser(admins, ev.UserID) {
		return h.platform.SendText(ev.ChatID, shared.MsgAdminOnly)
	}

	entries, err := h.auditSvc.Recent(recentLogLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return h.platform.SendText(ev.ChatID, shared.MsgNoLogs)
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, shared.MsgLogsHeader)
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("[%s] User %d: %s",
			entry.Timestamp.UTC().Format(shared.TimestampFormat), entry.UserID, entry.Action))
	}

	return h.platform.SendText(ev.ChatID, strings.Join(lines, "\n"))
}

func containsUser(userIDs []int64, userID int64) bool {
	for _, id := range userIDs {
		if id == userID {
			return true
		}
	}
	return false
}
