// Package mailer delivers verification mail. The account services only see
// the Sender interface.
package mailer

import (
	"context"
	"fmt"
	"strings"
)

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Delivery reports the recipient addresses the transport accepted.
type Delivery struct {
	Accepted []string
}

// Accepts reports whether addr is among the accepted recipients.
func (d *Delivery) Accepts(addr string) bool {
	if d == nil {
		return false
	}
	for _, a := range d.Accepted {
		if strings.EqualFold(strings.TrimSpace(a), addr) {
			return true
		}
	}
	return false
}

type Sender interface {
	SendMail(ctx context.Context, msg Message) (*Delivery, error)
}

// CodeMessage builds the mail carrying a one-time code.
func CodeMessage(from, to, subject, code string) Message {
	return Message{
		From:    from,
		To:      to,
		Subject: subject,
		HTML:    fmt.Sprintf("<h1>%s</h1><p>Your code is <b>%s</b>. It expires shortly; do not share it.</p>", subject, code),
	}
}
