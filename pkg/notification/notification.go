// Package notification provides a multi-channel notification system.
//
// Define a Notification:
//
//	type OrderPlacedNotification struct { User models.User; OrderID uint }
//	func (n *OrderPlacedNotification) Via() []string { return []string{"database", "push"} }
//	func (n *OrderPlacedNotification) ToDatabase() notification.DatabaseData {
//	    return notification.DatabaseData{UserID: n.User.ID, Title: "Order placed", ...}
//	}
//
// Send:
//
//	notification.Send(user.Phone, &OrderPlacedNotification{User: user, OrderID: id})
package notification

import (
	"fmt"
	"time"

	"github.com/chhotalabhavik/cleanout/pkg/http"
	"github.com/chhotalabhavik/cleanout/pkg/logger"
	"github.com/chhotalabhavik/cleanout/pkg/mail"
)

// ------------------- Channel data structs -------------------

// MailData carries the data needed to send an email notification.
type MailData struct {
	To      string // overrides the notifiable address if set
	Subject string
	Body    string // HTML
	Text    string // plain-text fallback
}

// DatabaseData is persisted as a notification row for the user's inbox.
type DatabaseData struct {
	UserID      uint
	Title       string
	Description string
}

// PushData is delivered live over the user's websocket connection.
type PushData struct {
	UserID  uint
	Payload interface{}
}

// WebhookData carries an arbitrary JSON payload to POST to a URL.
type WebhookData struct {
	URL     string
	Payload interface{}
	Headers map[string]string
}

// ------------------- Notification interface -------------------

// Notification is the interface every notification must satisfy.
type Notification interface {
	// Via returns the list of channel names: "database", "mail", "push", "webhook".
	Via() []string
}

// Mailable can be implemented to support the mail channel.
type Mailable interface {
	ToMail() MailData
}

// Databaseable can be implemented to store the notification in the DB.
type Databaseable interface {
	ToDatabase() DatabaseData
}

// Pushable can be implemented to support the live push channel.
type Pushable interface {
	ToPush() PushData
}

// Webhookable can be implemented to support the webhook channel.
type Webhookable interface {
	ToWebhook() WebhookData
}

// ------------------- Channel backends -------------------

// Backends are injected at boot so this package stays free of model and
// websocket imports.
var (
	databaseStore func(DatabaseData) error
	pusher        func(PushData) error
)

// SetDatabaseStore wires the persistence backend for the database channel.
func SetDatabaseStore(fn func(DatabaseData) error) { databaseStore = fn }

// SetPusher wires the live delivery backend for the push channel.
func SetPusher(fn func(PushData) error) { pusher = fn }

// ------------------- Send -------------------

// Send dispatches the notification through all channels returned by Via().
// address is typically an email address used for the mail channel.
func Send(address string, n Notification) []error {
	var errs []error
	for _, channel := range n.Via() {
		if err := dispatch(address, channel, n); err != nil {
			logger.Error("notification: channel failed",
				"channel", channel, "error", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// SendAsync dispatches the notification in a background goroutine.
func SendAsync(address string, n Notification) {
	go func() {
		if errs := Send(address, n); len(errs) > 0 {
			for _, e := range errs {
				logger.Error("notification: async error", "error", e)
			}
		}
	}()
}

func dispatch(address, channel string, n Notification) error {
	switch channel {
	case "mail":
		m, ok := n.(Mailable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Mailable", n)
		}
		return sendMail(address, m.ToMail())

	case "database":
		d, ok := n.(Databaseable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Databaseable", n)
		}
		if databaseStore == nil {
			return fmt.Errorf("notification: database store not configured")
		}
		return databaseStore(d.ToDatabase())

	case "push":
		p, ok := n.(Pushable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Pushable", n)
		}
		if pusher == nil {
			return nil // no live hub running (tests, CLI) — database row still lands
		}
		return pusher(p.ToPush())

	case "webhook":
		wh, ok := n.(Webhookable)
		if !ok {
			return fmt.Errorf("notification: %T does not implement Webhookable", n)
		}
		return sendWebhook(wh.ToWebhook())

	default:
		return fmt.Errorf("notification: unknown channel %q", channel)
	}
}

// ------------------- Mail channel -------------------

func sendMail(address string, d MailData) error {
	to := d.To
	if to == "" {
		to = address
	}

	body := d.Body
	if body == "" {
		body = d.Text
	}

	return mail.To(to).Subject(d.Subject).Body(body).Send()
}

// ------------------- Webhook channel -------------------

func sendWebhook(d WebhookData) error {
	if d.URL == "" {
		return fmt.Errorf("notification: webhook URL is empty")
	}

	resp, err := http.Post(d.URL).
		Headers(d.Headers).
		Body(d.Payload).
		Timeout(10 * time.Second).
		Retry(3, time.Second).
		Send()
	if err != nil {
		return fmt.Errorf("notification: webhook send: %w", err)
	}
	return resp.Throw()
}
