package email

// Message is one outbound email. Kind names the template that produced it
// and is used for logs and metrics only.
type Message struct {
	Kind     string
	To       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Template kinds.
const (
	KindSubmissionConfirmation = "submission_confirmation"
	KindSubmissionAdminAlert   = "submission_admin_alert"
	KindAccountVerification    = "account_verification"
	KindAccountWelcome         = "account_welcome"
)
