package email

// Provider is the delivery interface for outgoing mail.
type Provider interface {
	// Send delivers a plain email message.
	Send(email *Email) error

	// Validate checks the provider configuration.
	Validate() error
}
