package email

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string // HTML body
}

// Provider delivers outbound email. The digest worker only depends on this
// interface; development runs use a mock.
type Provider interface {
	Send(msg *Message) error
}
