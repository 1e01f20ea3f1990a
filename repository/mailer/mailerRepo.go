package mailerrepo

import "context"

// Message is one outbound mail. Body is plain text; templating lives with
// the mail provider.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Repo interface {
	Send(ctx context.Context, msg Message) error
}
