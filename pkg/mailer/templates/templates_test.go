package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AllTemplates(t *testing.T) {
	data := map[string]any{
		"Name":              "Alice",
		"AppName":           "PayHub",
		"StartingBalance":   "1000.00",
		"DashboardURL":      "http://localhost:3000/dashboard",
		"Time":              "01 January 2026, 12:00 UTC",
		"Amount":            "100.00",
		"CounterpartyName":  "Bob",
		"CounterpartyEmail": "bob@x.com",
		"Description":       "Lunch",
		"Email":             "alice@x.com",
		"TempPassword":      "abc12345",
		"Role":              "ADMIN",
	}

	for _, name := range []string{"welcome", "login_notification", "payment_sent", "payment_received", "admin_credentials"} {
		subject, text, html, err := Render(name, data)
		require.NoError(t, err, "template %s", name)
		assert.NotEmpty(t, subject, "template %s subject", name)
		assert.NotEmpty(t, text, "template %s text", name)
		assert.Contains(t, html, "Alice", "template %s html", name)
	}
}

func TestRender_EscapesHTML(t *testing.T) {
	_, _, html, err := Render("payment_sent", map[string]any{
		"Name":              "<script>alert(1)</script>",
		"Amount":            "1.00",
		"CounterpartyName":  "Bob",
		"CounterpartyEmail": "bob@x.com",
		"Description":       "x",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", nil)
	assert.Error(t, err)
}
