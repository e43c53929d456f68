package mailer

import (
	"context"
	"fmt"

	"github.com/yukikurage/event-rsvp/internal/constants"
	"github.com/yukikurage/event-rsvp/internal/models"
	"go.uber.org/zap"
)

// Notifier sends account and RSVP mail in the background. Delivery failures
// are logged and never reach the caller.
type Notifier struct {
	mailer  Mailer
	log     *zap.Logger
	baseURL string
}

func NewNotifier(mailer Mailer, log *zap.Logger, baseURL string) *Notifier {
	return &Notifier{mailer: mailer, log: log, baseURL: baseURL}
}

// SendActivation mails the activation link for user.
func (n *Notifier) SendActivation(user *models.User, uid, token string) {
	n.dispatch(ActivationMessage(user, n.baseURL, uid, token))
}

// SendRSVPConfirmation mails an RSVP confirmation for event to user.
func (n *Notifier) SendRSVPConfirmation(user *models.User, event *models.Event) {
	n.dispatch(RSVPConfirmationMessage(user, event))
}

func (n *Notifier) dispatch(msg Message) {
	if msg.To == "" {
		n.log.Warn("Skipping mail without recipient", zap.String("subject", msg.Subject))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.MailSendTimeout)
		defer cancel()

		if err := n.mailer.Send(ctx, msg); err != nil {
			n.log.Error("Failed to send mail",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}()
}

// ActivationMessage builds the account activation email.
func ActivationMessage(user *models.User, baseURL, uid, token string) Message {
	link := fmt.Sprintf("%s/activate/%s/%s/", baseURL, uid, token)
	return Message{
		To:      user.Email,
		Subject: "Activate your account",
		Body: fmt.Sprintf("Hi %s,\n\nPlease click the link below to activate your account:\n%s\n",
			user.FullName(), link),
	}
}

// RSVPConfirmationMessage builds the RSVP confirmation email.
func RSVPConfirmationMessage(user *models.User, event *models.Event) Message {
	return Message{
		To:      user.Email,
		Subject: fmt.Sprintf("RSVP Confirmation: %s", event.Title),
		Body: fmt.Sprintf("Hi %s,\n\nYou have successfully RSVP'd to %s on %s.\n",
			user.FullName(), event.Title, event.Date.Format("January 2, 2006 15:04")),
	}
}
