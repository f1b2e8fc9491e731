package app

import (
	"context"

	aptdomain "lawpages-go/internal/domain/appointment"
	"lawpages-go/pkg/logger"
)

// loggingNotifier is the default status-change subscriber; calendar and
// client-notification integrations hang off the same hook.
type loggingNotifier struct {
	log logger.Logger
}

func newLoggingNotifier(log logger.Logger) *loggingNotifier {
	return &loggingNotifier{log: log}
}

func (n *loggingNotifier) StatusChanged(_ context.Context, apt *aptdomain.Appointment, from, to aptdomain.Status) {
	n.log.Info("appointment: status changed",
		"appointment_id", apt.ID,
		"page_id", apt.PageID,
		"from", string(from),
		"to", string(to),
	)
}
