package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
)

// Each notification the service sends has a subject line, a plain-text
// fallback and an HTML body. Data keys are the union of what the
// application layer puts on the EmailJob for that template.

type def struct {
	subject string
	text    string
	html    string
}

var defs = map[string]def{
	"welcome": {
		subject: "Welcome to {{.AppName}}!",
		text:    "Hello {{.Name}}! Your account has been created. You have a ${{.StartingBalance}} starting balance and can send and receive payments right away.",
		html: baseHTML(`
<h2>Hello {{.Name}}!</h2>
<p>Welcome to our secure payment platform. Your account has been successfully created.</p>
<ul>
  <li>${{.StartingBalance}} starting balance</li>
  <li>Send and receive payments instantly</li>
  <li>Complete transaction history</li>
</ul>
<p><a class="button" href="{{.DashboardURL}}">Access Your Dashboard</a></p>`),
	},
	"login_notification": {
		subject: "New login to your account",
		text:    "Hello {{.Name}}, a new login to your account was detected at {{.Time}}. If this was not you, contact support immediately.",
		html: baseHTML(`
<h2>Hello {{.Name}},</h2>
<p>A new login to your account was detected at <strong>{{.Time}}</strong>.</p>
<p>If this was not you, please contact support immediately.</p>`),
	},
	"payment_sent": {
		subject: "Payment sent",
		text:    "Hello {{.Name}}, you sent ${{.Amount}} to {{.CounterpartyName}} ({{.CounterpartyEmail}}). Description: {{.Description}}.",
		html: baseHTML(`
<h2>Hello {{.Name}},</h2>
<p>You sent <strong>${{.Amount}}</strong> to {{.CounterpartyName}} ({{.CounterpartyEmail}}).</p>
<p>Description: {{.Description}}</p>`),
	},
	"payment_received": {
		subject: "You received a payment",
		text:    "Hello {{.Name}}, you received ${{.Amount}} from {{.CounterpartyName}} ({{.CounterpartyEmail}}). Description: {{.Description}}.",
		html: baseHTML(`
<h2>Hello {{.Name}},</h2>
<p>You received <strong>${{.Amount}}</strong> from {{.CounterpartyName}} ({{.CounterpartyEmail}}).</p>
<p>Description: {{.Description}}</p>`),
	},
	"admin_credentials": {
		subject: "Admin Account Created",
		text:    "Hello {{.Name}}, your admin account has been created. Email: {{.Email}}, temporary password: {{.TempPassword}}, role: {{.Role}}. Please change your password after first login.",
		html: baseHTML(`
<h2>Welcome to the Admin Panel</h2>
<p>Hello {{.Name}}, your admin account has been created successfully.</p>
<div class="box">
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Temporary Password:</strong> {{.TempPassword}}</p>
  <p><strong>Role:</strong> {{.Role}}</p>
</div>
<p><strong>Important:</strong> please change your password after first login.</p>`),
	},
}

func baseHTML(body string) string {
	return `<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .button { display: inline-block; background: #667eea; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; }
      .box { background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0; }
      .footer { text-align: center; margin-top: 30px; color: #666; font-size: 14px; }
    </style>
  </head>
  <body>
    <div class="container">` + body + `
      <div class="footer"><p>{{.AppName}}</p></div>
    </div>
  </body>
</html>`
}

// Render fills the named template with data and returns subject, text and
// HTML bodies. Unknown template names are an error so the worker can dead-
// letter the job instead of sending something half-rendered.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	d, ok := defs[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	subject, err = render(name+":subject", d.subject, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = render(name+":text", d.text, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = render(name+":html", d.html, data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}

func render(name, tpl string, data map[string]any) (string, error) {
	t, err := htmpl.New(name).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
