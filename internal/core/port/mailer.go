package port

import "context"

// Mailer delivers transactional mail to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
