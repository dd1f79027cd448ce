package mail

import (
	"context"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"streamshop/internal/config"
	"streamshop/internal/domain/model"
	"streamshop/internal/domain/ports/adapter"
)

// Ensure interface compliance
var _ adapter.AdminNotifier = (*SMTPNotifier)(nil)

// SMTPNotifier emails the store administrator. Callers treat every send
// as best-effort; a delivery failure is theirs to log, never to surface
// to the customer.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) OrderCreated(ctx context.Context, order *model.Order, customer *model.Customer) error {
	subject := fmt.Sprintf("New order %s: %s requests %s", order.Reference, customer.Name, order.Platform)
	var b strings.Builder
	fmt.Fprintf(&b, "Customer %s (%s) placed order %s for %s.\n", customer.Name, customer.Phone, order.Reference, order.Platform)
	if order.PaymentRef != "" {
		fmt.Fprintf(&b, "Payment reference: %s\n", order.PaymentRef)
	}
	b.WriteString("\nOpen the admin panel to verify the payment and assign an account.\n")
	return n.send(ctx, subject, b.String())
}

func (n *SMTPNotifier) ExpiryDigest(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d subscription(s) expire soon:\n\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b, "- order %s, %s, expires %s\n", o.Reference, o.Platform, o.ExpiresAt.Format("2006-01-02"))
	}
	return n.send(ctx, fmt.Sprintf("%d subscriptions expiring soon", len(orders)), b.String())
}

func (n *SMTPNotifier) send(ctx context.Context, subject, body string) error {
	opts := []gomail.Option{
		gomail.WithPort(n.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(n.cfg.Username),
			gomail.WithPassword(n.cfg.Password),
		)
	}
	client, err := gomail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	msg := gomail.NewMsg()
	from := n.cfg.From
	if from == "" {
		from = "noreply@example.com"
	}
	if err := msg.From(from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(n.cfg.AdminEmail); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
