// Package mailer is the best-effort notification sink. Sends go out over
// SMTP via gomail; every failure is logged and swallowed, a mail problem
// never escalates into an order failure.
package mailer

import (
	"github.com/asaskevich/EventBus"
	"github.com/stocklane/stocklane/config"
	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/inventory"
	"github.com/stocklane/stocklane/internal/orders"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender abstracts the SMTP dialer so tests can capture outbound mail
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends templated notification mail
type Mailer struct {
	cfg    config.SmtpConfig
	sender Sender
}

// New creates a mailer from SMTP config
func New(cfg config.SmtpConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// NewWithSender creates a mailer with a custom sender (used in tests)
func NewWithSender(cfg config.SmtpConfig, sender Sender) *Mailer {
	return &Mailer{cfg: cfg, sender: sender}
}

// Subscribe wires the mailer onto the event bus. Handlers run on the bus's
// async goroutines, keeping mail off the request path.
func (m *Mailer) Subscribe(bus EventBus.Bus) error {
	if err := bus.SubscribeAsync(orders.TopicOrderCreated, m.onOrderCreated, false); err != nil {
		return err
	}
	return bus.SubscribeAsync(inventory.TopicLowStock, m.onLowStock, false)
}

func (m *Mailer) onOrderCreated(order domain.Order, emailTo string) {
	if err := m.SendOrderConfirmation(emailTo, order); err != nil {
		zap.L().Warn("failed to send order confirmation",
			zap.String("order_number", order.OrderNumber),
			zap.String("to", emailTo),
			zap.Error(err))
	}
}

func (m *Mailer) onLowStock(emailTo string, products []domain.Product) {
	if err := m.SendLowStockAlert(emailTo, products); err != nil {
		zap.L().Warn("failed to send low stock alert",
			zap.String("to", emailTo),
			zap.Int("products", len(products)),
			zap.Error(err))
	}
}

// Send delivers one HTML mail. Disabled SMTP config turns Send into a no-op
// so development setups work without a mail relay.
func (m *Mailer) Send(to, subject, html string) error {
	if !m.cfg.Enabled {
		zap.L().Debug("smtp disabled, dropping mail",
			zap.String("to", to), zap.String("subject", subject))
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	return m.sender.DialAndSend(msg)
}

// SendOrderConfirmation mails the order breakdown to the counterparty
func (m *Mailer) SendOrderConfirmation(to string, order domain.Order) error {
	return m.Send(to, "Order Confirmation - "+order.OrderNumber, orderConfirmationHTML(order))
}

// SendLowStockAlert mails the list of products below their reorder point
func (m *Mailer) SendLowStockAlert(to string, products []domain.Product) error {
	return m.Send(to, "Low Stock Alert - Inventory Management", lowStockHTML(products))
}

// SendWelcome mails the account-created notice to a new operator
func (m *Mailer) SendWelcome(to, name string) error {
	return m.Send(to, "Welcome to Inventory Management System", welcomeHTML(name))
}
