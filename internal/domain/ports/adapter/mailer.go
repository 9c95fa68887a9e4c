package adapter

import "context"

// Mailer sends transactional email. Delivery failures are logged by callers
// and never block the flow that triggered them.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
