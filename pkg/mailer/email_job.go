package mailer

// Template names understood by the email worker.
const (
	TplWelcome          = "welcome"
	TplLoginNotify      = "login_notification"
	TplPaymentSent      = "payment_sent"
	TplPaymentReceived  = "payment_received"
	TplAdminCredentials = "admin_credentials"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data or a raw Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
