package mailer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/postgate/internal/logging"
)

// WriterSender prints mail to w instead of sending it. It backs the "log"
// driver for local development.
type WriterSender struct {
	mu     sync.Mutex
	w      io.Writer
	logger logging.Logger
}

func NewWriterSender(w io.Writer, logger logging.Logger) *WriterSender {
	return &WriterSender{w: w, logger: logger.With("module", "mailer", "driver", "log")}
}

func (s *WriterSender) SendMail(ctx context.Context, msg Message) (*Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintf(s.w, "From: %s\nTo: %s\nSubject: %s\n\n%s\n\n", msg.From, msg.To, msg.Subject, msg.HTML)
	if err != nil {
		return nil, fmt.Errorf("write mail: %w", err)
	}

	s.logger.Debug(ctx, "mail written", "to", msg.To)
	return &Delivery{Accepted: []string{msg.To}}, nil
}
