package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/dto"
	"go.uber.org/zap"
)

// AccountMailer is implemented by *services.MailService.
type AccountMailer interface {
	SendAccountApproved(to, name string) error
	SendAccountBanned(to, name string) error
}

type MailHandler struct {
	mailer AccountMailer
	logger *zap.Logger
}

func NewMailHandler(mailer AccountMailer, logger *zap.Logger) *MailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MailHandler{mailer: mailer, logger: logger}
}

// HandleMessage mails the account owner on approval or ban; other events are ignored.
func (h *MailHandler) HandleMessage(message string) error {
	var event dto.AccountEvent
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		return fmt.Errorf("invalid event payload: %w", err)
	}

	switch event.Event {
	case domain.EventAccountApproved:
		h.logger.Info("account approved event", zap.String("student_id", event.StudentID))
		return h.mailer.SendAccountApproved(event.Email, event.Name)
	case domain.EventAccountBanned:
		h.logger.Info("account banned event", zap.String("student_id", event.StudentID))
		return h.mailer.SendAccountBanned(event.Email, event.Name)
	default:
		return nil
	}
}
