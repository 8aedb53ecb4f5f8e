package mailer

import (
	"testing"

	"github.com/stocklane/stocklane/config"
	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

// captureSender records outbound messages instead of dialing SMTP
type captureSender struct {
	messages []*gomail.Message
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return nil
}

func newTestMailer(enabled bool) (*Mailer, *captureSender) {
	sender := &captureSender{}
	m := NewWithSender(config.SmtpConfig{
		Enabled: enabled,
		From:    "noreply@example.com",
	}, sender)
	return m, sender
}

func TestSendDisabledIsNoop(t *testing.T) {
	t.Parallel()

	m, sender := newTestMailer(false)
	require.NoError(t, m.Send("someone@example.com", "subject", "<p>hi</p>"))
	require.Empty(t, sender.messages)
}

func TestSendOrderConfirmation(t *testing.T) {
	t.Parallel()

	m, sender := newTestMailer(true)
	order := domain.Order{
		OrderNumber: "ORD-20260829-TEST1",
		Type:        domain.OrderTypeSale,
		Status:      domain.OrderStatusPending,
		Subtotal:    40,
		Tax:         2,
		Discount:    1,
		TotalAmount: 41,
		Items: []domain.OrderItem{
			{ProductName: "Widget", Quantity: 2, Price: 20, Total: 40},
		},
	}

	require.NoError(t, m.SendOrderConfirmation("alice@example.com", order))
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0]
	require.Equal(t, []string{"alice@example.com"}, msg.GetHeader("To"))
	require.Equal(t, []string{"noreply@example.com"}, msg.GetHeader("From"))
	require.Contains(t, msg.GetHeader("Subject")[0], "ORD-20260829-TEST1")
}

func TestOrderConfirmationTemplate(t *testing.T) {
	t.Parallel()

	body := orderConfirmationHTML(domain.Order{
		OrderNumber: "ORD-20260829-TEST2",
		Type:        domain.OrderTypeSale,
		Status:      domain.OrderStatusPending,
		Subtotal:    40,
		TotalAmount: 42.5,
		Items: []domain.OrderItem{
			{ProductName: "Widget", Quantity: 2, Price: 20, Total: 40},
		},
	})

	require.Contains(t, body, "ORD-20260829-TEST2")
	require.Contains(t, body, "Widget")
	require.Contains(t, body, "Qty: 2")
	require.Contains(t, body, "$42.50")
}

func TestLowStockTemplate(t *testing.T) {
	t.Parallel()

	body := lowStockHTML([]domain.Product{
		{Name: "Widget", Sku: "WID-001", Quantity: 2, MinStockLevel: 10},
		{Name: "Gadget", Sku: "GAD-001", Quantity: 0, MinStockLevel: 5},
	})

	require.Contains(t, body, "Widget")
	require.Contains(t, body, "WID-001")
	require.Contains(t, body, "Current Stock: 0")
}

func TestTemplatesEscapeHTML(t *testing.T) {
	t.Parallel()

	body := orderConfirmationHTML(domain.Order{
		OrderNumber: "<script>alert(1)</script>",
	})
	require.NotContains(t, body, "<script>")
	require.Contains(t, body, "&lt;script&gt;")

	body = welcomeHTML("<b>Bob</b>")
	require.NotContains(t, body, "<b>Bob</b>")
}

func TestSendLowStockAlert(t *testing.T) {
	t.Parallel()

	m, sender := newTestMailer(true)
	require.NoError(t, m.SendLowStockAlert("ops@example.com", []domain.Product{
		{Name: "Widget", Sku: "WID-001", Quantity: 2, MinStockLevel: 10},
	}))
	require.Len(t, sender.messages, 1)
	require.Contains(t, sender.messages[0].GetHeader("Subject")[0], "Low Stock Alert")
}
