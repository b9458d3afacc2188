package email

// Email represents one outgoing message.
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}
