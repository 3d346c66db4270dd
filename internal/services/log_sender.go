package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ithomeportal/unilink-energy/internal/utils"
)

// logSender writes messages to the log instead of sending them. Development only.
// The body carries verification codes, so it is only logged at debug level.
type logSender struct {
	logger zerolog.Logger
}

func newLogSender(logger zerolog.Logger) *logSender {
	return &logSender{logger: logger}
}

func (s *logSender) send(_ context.Context, msg OutboundEmail) error {
	to := make([]string, len(msg.To))
	for i, addr := range msg.To {
		to[i] = utils.MaskEmail(addr)
	}

	s.logger.Warn().
		Strs("to", to).
		Str("subject", msg.Subject).
		Msg("mail provider is log; message not delivered")
	s.logger.Debug().
		Strs("to", to).
		Str("body", msg.Text).
		Msg("undelivered message body")
	return nil
}
