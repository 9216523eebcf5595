package delivery

import (
	"context"
	"fmt"
	"net/smtp"
	"os"

	"github.com/Dias221467/Growth_Platform/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressResolver maps a platform user to an email address. The user
// directory lives outside this service, so the lookup is injected.
type AddressResolver func(ctx context.Context, userID primitive.ObjectID) (string, error)

// EmailChannel delivers notifications as plain text email over SMTP.
type EmailChannel struct {
	resolve AddressResolver
}

func NewEmailChannel(resolve AddressResolver) *EmailChannel {
	return &EmailChannel{resolve: resolve}
}

func (c *EmailChannel) Deliver(ctx context.Context, notif *models.Notification) error {
	to, err := c.resolve(ctx, notif.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient address: %v", err)
	}
	return sendEmail(to, notif.Title, notif.Message)
}

// sendEmail sends a plain text email using SMTP.
func sendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_SENDER")
	password := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")

	auth := smtp.PlainAuth("", from, password, smtpHost)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	address := smtpHost + ":" + smtpPort

	if err := smtp.SendMail(address, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
