// Package jobs defines the queued job types processed by the worker pool.
// Every job type must be registered in Register so the queue can
// deserialize it by name.
package jobs

import (
	"fmt"

	"github.com/chhotalabhavik/cleanout/pkg/notification"
	"github.com/chhotalabhavik/cleanout/pkg/queue"
)

// Notification purposes, used as mail subjects and inbox titles.
const (
	PurposePlacedOrder     = "PLACED_ORDER"
	PurposeDispatchedOrder = "DISPATCHED_ORDER"
	PurposeDeliveredOrder  = "DELIVERED_ORDER"
	PurposeCancelOrder     = "CANCEL_ORDER"
	PurposeOTP             = "OTP"
	PurposeResetPassword   = "RESET_PASSWORD"
	PurposeVerifyWorker    = "VERIFY_WORKER"
	PurposeVerifiedWorker  = "VERIFIED_WORKER"
	PurposeRequestAccepted = "REQUEST_ACCEPTED"
	PurposeRequestRejected = "REQUEST_REJECTED"
	PurposeLeftShop        = "LEFT_SHOP"
	PurposeRemovedShop     = "REMOVED_FROM_SHOP"
	PurposeReminder        = "REMINDER"
)

// NotificationJob is the outbox entry: one message fanned out to every
// recipient over the inbox, live push and (optionally) mail channels.
// The queue retries it with backoff, so delivery is at-least-once.
type NotificationJob struct {
	UserIDs   []uint   `json:"userIds"`
	Addresses []string `json:"addresses,omitempty"` // mail recipients, when the purpose warrants mail
	Purpose   string   `json:"purpose"`
	Message   string   `json:"message"`
}

// Register wires every job type into the queue registry. Call once at
// boot, before workers start.
func Register() {
	queue.Register("jobs.NotificationJob", func() queue.Job { return &NotificationJob{} })
}

// Dispatch pushes the job onto the queue.
func (j NotificationJob) Dispatch() {
	if err := queue.Dispatch(j); err != nil {
		// The queue driver is down; deliver inline rather than lose it.
		_ = j.Handle()
	}
}

// Handle delivers the notification to every recipient. Value receiver:
// the job must satisfy queue.Job both as the dispatched value and as the
// pointer the registry factory rebuilds.
func (j NotificationJob) Handle() error {
	var firstErr error

	for _, userID := range j.UserIDs {
		n := &userNotice{userID: userID, purpose: j.Purpose, message: j.Message}
		if errs := notification.Send("", n); len(errs) > 0 && firstErr == nil {
			firstErr = errs[0]
		}
	}

	for _, addr := range j.Addresses {
		n := &mailNotice{purpose: j.Purpose, message: j.Message}
		if errs := notification.Send(addr, n); len(errs) > 0 && firstErr == nil {
			firstErr = errs[0]
		}
	}

	return firstErr
}

// userNotice lands in the user's inbox and on their live websocket.
type userNotice struct {
	userID  uint
	purpose string
	message string
}

func (n *userNotice) Via() []string { return []string{"database", "push"} }

func (n *userNotice) ToDatabase() notification.DatabaseData {
	return notification.DatabaseData{
		UserID:      n.userID,
		Title:       n.purpose,
		Description: n.message,
	}
}

func (n *userNotice) ToPush() notification.PushData {
	return notification.PushData{
		UserID: n.userID,
		Payload: map[string]string{
			"purpose": n.purpose,
			"message": n.message,
		},
	}
}

// mailNotice goes out over SMTP with the purpose as subject.
type mailNotice struct {
	purpose string
	message string
}

func (n *mailNotice) Via() []string { return []string{"mail"} }

func (n *mailNotice) ToMail() notification.MailData {
	return notification.MailData{
		Subject: fmt.Sprintf("%s - Clean Out", n.purpose),
		Body:    fmt.Sprintf("<h3>%s</h3>", n.message),
		Text:    n.message,
	}
}
