package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var (
	bookingCancelledTmpl = template.Must(template.New("booking_cancelled").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your booking has been cancelled</h2>
  <p>Hi {{.Name}},</p>
  <p>Your booking for <strong>{{.Facility}}</strong> at <strong>{{.Gym}}</strong> on
  <strong>{{.Date}}</strong> ({{.TimeSlot}}) has been cancelled.</p>
  <p>If you did not expect this, please contact the gym.</p>
</body>
</html>`))

	loginCodeTmpl = template.Must(template.New("login_code").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your login code</h2>
  <p>Hi {{.Name}},</p>
  <p>Use this code to finish signing in:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>It expires in {{.Minutes}} minutes. If you did not try to sign in, change your password.</p>
</body>
</html>`))

	orderCancelledTmpl = template.Must(template.New("order_cancelled").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your order has been cancelled</h2>
  <p>Hi {{.Name}},</p>
  <p>Order <strong>{{.OrderID}}</strong> placed on {{.PlacedOn}} has been cancelled.</p>
  <table cellpadding="4" style="border-collapse: collapse;">
    {{range .Items}}<tr><td>{{.Name}}{{if .Size}} ({{.Size}}){{end}}</td><td>x{{.Quantity}}</td></tr>
    {{end}}
  </table>
  <p>Total: {{.Amount}}</p>
  {{if .Notes}}<p>Note from the store: {{.Notes}}</p>{{end}}
</body>
</html>`))
)

type BookingCancelledData struct {
	Name     string
	Gym      string
	Facility string
	Date     time.Time
	TimeSlot string
}

type LoginCodeData struct {
	Name     string
	Code     string
	ValidFor time.Duration
}

type OrderLine struct {
	Name     string
	Size     string
	Quantity int
}

type OrderCancelledData struct {
	Name     string
	OrderID  string
	PlacedOn time.Time
	Items    []OrderLine
	Amount   float64
	Currency string
	Notes    string
}

func BookingCancelled(data BookingCancelledData) (subject, body string, err error) {
	var buf bytes.Buffer
	err = bookingCancelledTmpl.Execute(&buf, map[string]string{
		"Name":     data.Name,
		"Gym":      data.Gym,
		"Facility": data.Facility,
		"Date":     data.Date.UTC().Format("2006-01-02"),
		"TimeSlot": data.TimeSlot,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render booking cancellation: %w", err)
	}
	return "Booking cancelled", buf.String(), nil
}

func OrderCancelled(data OrderCancelledData) (subject, body string, err error) {
	var buf bytes.Buffer
	err = orderCancelledTmpl.Execute(&buf, map[string]any{
		"Name":     data.Name,
		"OrderID":  data.OrderID,
		"PlacedOn": data.PlacedOn.UTC().Format("2006-01-02"),
		"Items":    data.Items,
		"Amount":   fmt.Sprintf("%.2f %s", data.Amount, data.Currency),
		"Notes":    data.Notes,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render order cancellation: %w", err)
	}
	return fmt.Sprintf("Order %s cancelled", data.OrderID), buf.String(), nil
}

func LoginCode(data LoginCodeData) (subject, body string, err error) {
	var buf bytes.Buffer
	err = loginCodeTmpl.Execute(&buf, map[string]any{
		"Name":    data.Name,
		"Code":    data.Code,
		"Minutes": int(data.ValidFor.Round(time.Minute) / time.Minute),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render login code: %w", err)
	}
	return "Your login code", buf.String(), nil
}
