package mailer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/wneessen/go-mail"
)

// Mailer delivers a generated artifact to a recipient over authenticated
// SMTP submission. The sender address doubles as the SMTP username; the
// password comes from the SENDER_EMAIL_PASSWORD secret.
type Mailer struct {
	host     string
	port     int
	password string
}

// New builds a Mailer for the given submission host and port.
func New(host string, port int, password string) *Mailer {
	return &Mailer{host: host, port: port, password: password}
}

// SendArtifact mails the file at artifactPath from sender to recipient.
func (m *Mailer) SendArtifact(ctx context.Context, artifactPath, sender, recipient string) error {
	msg := mail.NewMsg()
	if err := msg.From(sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("Your generated podcast")
	msg.SetBodyString(mail.TypeTextPlain,
		"Hi,\n\nYour podcast was generated from the uploaded PDFs. The audio file is attached.\n")
	msg.AttachFile(artifactPath, mail.WithFileName(filepath.Base(artifactPath)))

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(sender),
		mail.WithPassword(m.password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("build smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send artifact to %s: %w", recipient, err)
	}
	return nil
}
