package service

import "context"

// MailSender delivers a rendered message to a destination address.
// The engine composes the confirmation mail; delivery is a thin transport
// concern behind this interface.
type MailSender interface {
	Send(ctx context.Context, subject, body, toAddress string) error
}
