package mailer

import "context"

//go:generate mockgen -source=notifier.go -destination=notifier_mock.go -package=mailer

// ContactNotification is a contact form submission to forward to the owner.
type ContactNotification struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Notifier delivers contact notifications.
type Notifier interface {
	SendContactNotification(ctx context.Context, n ContactNotification) error
}
