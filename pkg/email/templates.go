package email

import (
	"fmt"
	"html"
	"time"
)

// Callers pass values that were HTML-escaped at input time. HTML bodies
// insert them verbatim; plain-text bodies unescape them first.

// SiteData carries the site identity shared by every template.
type SiteData struct {
	AppName      string
	BaseURL      string
	CommunityURL string
	WeeklyPrize  string
}

// plain turns a stored, HTML-escaped value back into the text the user typed.
func plain(s string) string { return html.UnescapeString(s) }

func (s SiteData) appName() string {
	if s.AppName == "" {
		return "Founders Monday Global"
	}
	return s.AppName
}

// SubmissionEmailData contains the data needed for application emails.
type SubmissionEmailData struct {
	Site         SiteData
	SubmissionID int
	FullName     string
	Email        string
	CompanyName  string
	SubmittedAt  time.Time
	AdminEmail   string
}

// AdminViewURL is the admin link for one submission.
func (d SubmissionEmailData) AdminViewURL() string {
	return fmt.Sprintf("%s/api/v1/admin/submissions/%d", d.Site.BaseURL, d.SubmissionID)
}

// BuildSubmissionConfirmationEmail creates the acknowledgement sent to the
// founder who applied.
func BuildSubmissionConfirmationEmail(d SubmissionEmailData) Message {
	appName := d.Site.appName()
	prize := d.Site.WeeklyPrize
	if prize == "" {
		prize = "a weekly prize"
	}

	subject := "Founders Monday - Application Received"

	textBody := fmt.Sprintf(`Hello %s!

Thank you for submitting your application to %s.

We have received your submission and our team will review it carefully. If selected, you'll be contacted for the next steps.

What happens next?
- Our team reviews all submissions weekly
- Selected founders are notified every Monday
- Featured founders win %s
- All applicants receive feedback

In the meantime, feel free to join our community: %s

Best regards,
The Founders Monday Team`,
		plain(d.FullName), appName, prize, d.Site.CommunityURL)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: linear-gradient(135deg, #1E3A8A, #3B82F6); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
        <h1>Application Received!</h1>
    </div>
    <div style="background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px;">
        <h2>Hello %s!</h2>
        <p>Thank you for submitting your application to %s.</p>
        <p>We have received your submission and our team will review it carefully. If selected, you'll be contacted for the next steps.</p>
        <p><strong>What happens next?</strong></p>
        <ul>
            <li>Our team reviews all submissions weekly</li>
            <li>Selected founders are notified every Monday</li>
            <li>Featured founders win %s</li>
            <li>All applicants receive feedback</li>
        </ul>
        <p>In the meantime, feel free to join our community:</p>
        <p style="text-align: center; margin: 20px 0;">
            <a href="%s" style="background: #D4AF37; color: #000; padding: 12px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">Join WhatsApp Group</a>
        </p>
        <p>Best regards,<br>The Founders Monday Team</p>
    </div>
</body>
</html>`,
		d.FullName, appName, prize, d.Site.CommunityURL)

	return Message{
		Kind:     KindSubmissionConfirmation,
		To:       []string{d.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildSubmissionAdminAlertEmail creates the new-application alert sent to
// the site administrator.
func BuildSubmissionAdminAlertEmail(d SubmissionEmailData) Message {
	subject := "New Founder Application Received"
	submitted := d.SubmittedAt.Format("2006-01-02 15:04:05")
	link := d.AdminViewURL()

	textBody := fmt.Sprintf(`New Application Alert

Submission ID: %d
Founder Name: %s
Company Name: %s
Submitted: %s

View Full Application: %s`,
		d.SubmissionID, plain(d.FullName), plain(d.CompanyName), submitted, link)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; max-width: 600px; margin: 0 auto;">
    <div style="background: #ffeb3b; padding: 10px; border-left: 4px solid #ffc107;">
        <h2>New Application Alert</h2>
    </div>
    <div style="background: #e3f2fd; padding: 20px; border-radius: 5px;">
        <h3>Application Details:</h3>
        <p><strong>Submission ID:</strong> %d</p>
        <p><strong>Founder Name:</strong> %s</p>
        <p><strong>Company Name:</strong> %s</p>
        <p><strong>Submitted:</strong> %s</p>
        <hr>
        <p><a href="%s">View Full Application</a></p>
    </div>
</body>
</html>`,
		d.SubmissionID, d.FullName, d.CompanyName, submitted, link)

	return Message{
		Kind:     KindSubmissionAdminAlert,
		ReplyTo:  d.Email,
		To:       []string{d.AdminEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// AccountEmailData contains the data needed for account emails.
type AccountEmailData struct {
	Site              SiteData
	FullName          string
	Username          string
	Email             string
	VerificationToken string
}

func (d AccountEmailData) VerificationURL() string {
	return fmt.Sprintf("%s/api/v1/auth/verify?token=%s", d.Site.BaseURL, d.VerificationToken)
}

// BuildVerificationEmail asks a new account holder to confirm their address.
func BuildVerificationEmail(d AccountEmailData) Message {
	appName := d.Site.appName()
	link := d.VerificationURL()

	subject := "Verify Your Founders Monday Account"

	textBody := fmt.Sprintf(`Welcome %s!

Thank you for creating an account with %s.

To complete your registration, please verify your email address by opening the link below:
%s

This link will expire in 24 hours.

If you did not create an account, please ignore this email.

Best regards,
The Founders Monday Team`,
		plain(d.FullName), appName, link)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="color: #1E3A8A;">Verify Your Account</h1>
    <h2>Welcome %s!</h2>
    <p>Thank you for creating an account with %s.</p>
    <p>To complete your registration, please verify your email address by clicking the button below:</p>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background: #D4AF37; color: #000; padding: 12px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">Verify Email Address</a>
    </p>
    <p>Or copy and paste this link in your browser:</p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px; font-family: monospace;">%s</p>
    <p>This link will expire in 24 hours.</p>
    <p>If you did not create an account, please ignore this email.</p>
    <p>Best regards,<br>The Founders Monday Team</p>
</body>
</html>`,
		d.FullName, appName, link, link)

	return Message{
		Kind:     KindAccountVerification,
		To:       []string{d.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildWelcomeEmail greets a freshly registered account.
func BuildWelcomeEmail(d AccountEmailData) Message {
	appName := d.Site.appName()

	subject := fmt.Sprintf("Welcome to %s!", appName)

	textBody := fmt.Sprintf(`Hello %s!

Your account has been successfully created with username: %s

Here's what you can do now:
- Submit your startup for featuring
- Connect with other founders
- Access exclusive resources
- Participate in community events

Best regards,
The Founders Monday Team`,
		plain(d.FullName), plain(d.Username))

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="color: #1E3A8A;">Welcome Aboard!</h1>
    <h2>Hello %s!</h2>
    <p>Your account has been successfully created with username: <strong>%s</strong></p>
    <h3>Get Started</h3>
    <p>Here's what you can do now:</p>
    <ul>
        <li>Submit your startup for featuring</li>
        <li>Connect with other founders</li>
        <li>Access exclusive resources</li>
        <li>Participate in community events</li>
    </ul>
    <p>Best regards,<br>The Founders Monday Team</p>
</body>
</html>`,
		d.FullName, d.Username)

	return Message{
		Kind:     KindAccountWelcome,
		To:       []string{d.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
