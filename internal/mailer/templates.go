package mailer

import (
	"fmt"
	"html"
	"strings"

	"github.com/stocklane/stocklane/internal/domain"
)

func orderConfirmationHTML(order domain.Order) string {
	var b strings.Builder
	b.WriteString("<h2>Order Confirmation</h2>")
	fmt.Fprintf(&b, "<p>Order Number: <strong>%s</strong></p>", html.EscapeString(order.OrderNumber))
	fmt.Fprintf(&b, "<p>Order Type: <strong>%s</strong></p>", html.EscapeString(order.Type))
	fmt.Fprintf(&b, "<p>Status: <strong>%s</strong></p>", html.EscapeString(order.Status))
	b.WriteString("<h3>Items:</h3><ul>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<li>%s - Qty: %d - Price: $%.2f - Total: $%.2f</li>",
			html.EscapeString(item.ProductName), item.Quantity, item.Price, item.Total)
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p><strong>Subtotal:</strong> $%.2f</p>", order.Subtotal)
	fmt.Fprintf(&b, "<p><strong>Tax:</strong> $%.2f</p>", order.Tax)
	fmt.Fprintf(&b, "<p><strong>Discount:</strong> $%.2f</p>", order.Discount)
	fmt.Fprintf(&b, "<p><strong>Total Amount:</strong> $%.2f</p>", order.TotalAmount)
	b.WriteString("<p>Thank you for your order!</p>")
	return b.String()
}

func lowStockHTML(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("<h2>Low Stock Alert</h2>")
	b.WriteString("<p>The following products are running low on stock:</p><ul>")
	for _, p := range products {
		fmt.Fprintf(&b, "<li><strong>%s</strong> (SKU: %s) - Current Stock: %d (Min: %d)</li>",
			html.EscapeString(p.Name), html.EscapeString(p.Sku), p.Quantity, p.MinStockLevel)
	}
	b.WriteString("</ul><p>Please reorder these items soon.</p>")
	return b.String()
}

func welcomeHTML(name string) string {
	var b strings.Builder
	b.WriteString("<h2>Welcome to Inventory Management System!</h2>")
	fmt.Fprintf(&b, "<p>Hi %s,</p>", html.EscapeString(name))
	b.WriteString("<p>Your account has been successfully created.</p>")
	b.WriteString("<p>You can now login and start managing your inventory.</p>")
	b.WriteString("<p>Best regards,<br/>Inventory Management Team</p>")
	return b.String()
}
