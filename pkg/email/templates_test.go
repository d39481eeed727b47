package email

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuildSubmissionAdminAlertEmail(t *testing.T) {
	d := SubmissionEmailData{
		Site:         SiteData{BaseURL: "https://foundersmonday.com"},
		SubmissionID: 42,
		FullName:     "Ada Founder",
		CompanyName:  "Acme &amp; Co",
		SubmittedAt:  time.Date(2024, 3, 10, 9, 5, 0, 0, time.UTC),
		AdminEmail:   "hello@foundersmonday.com",
	}

	m := BuildSubmissionAdminAlertEmail(d)

	if len(m.To) != 1 || m.To[0] != "hello@foundersmonday.com" {
		t.Fatalf("To = %v", m.To)
	}
	if m.Subject != "New Founder Application Received" {
		t.Errorf("Subject = %q", m.Subject)
	}
	for _, want := range []string{
		"42", "Ada Founder", "2024-03-10 09:05:00",
		"https://foundersmonday.com/api/v1/admin/submissions/42",
	} {
		if !strings.Contains(m.HTMLBody, want) {
			t.Errorf("HTMLBody missing %q", want)
		}
		if !strings.Contains(m.TextBody, want) {
			t.Errorf("TextBody missing %q", want)
		}
	}
	if !strings.Contains(m.HTMLBody, "Acme &amp; Co") {
		t.Error("HTMLBody should keep the escaped company name")
	}
	if !strings.Contains(m.TextBody, "Company Name: Acme & Co") {
		t.Errorf("TextBody should unescape the company name: %s", m.TextBody)
	}
}

func TestTextBodiesAreUnescaped(t *testing.T) {
	m := BuildWelcomeEmail(AccountEmailData{FullName: "Sean O&#39;Brien", Username: "sean&amp;co", Email: "sean@example.com"})

	if !strings.Contains(m.TextBody, "Hello Sean O'Brien!") || !strings.Contains(m.TextBody, "username: sean&co") {
		t.Errorf("TextBody = %s", m.TextBody)
	}
	if strings.Contains(m.TextBody, "&#39;") {
		t.Error("TextBody still holds an HTML entity")
	}
	if !strings.Contains(m.HTMLBody, "O&#39;Brien") {
		t.Error("HTMLBody should keep the escaped name")
	}
}

func TestBuildSubmissionConfirmationEmail(t *testing.T) {
	m := BuildSubmissionConfirmationEmail(SubmissionEmailData{
		Site:     SiteData{CommunityURL: "https://chat.example/x", WeeklyPrize: "UGX 100,000"},
		FullName: "Ada",
		Email:    "ada@example.com",
	})

	if m.To[0] != "ada@example.com" {
		t.Errorf("To = %v", m.To)
	}
	if m.Kind != KindSubmissionConfirmation {
		t.Errorf("Kind = %q", m.Kind)
	}
	if m.Subject != "Founders Monday - Application Received" {
		t.Errorf("Subject = %q", m.Subject)
	}
	if !strings.Contains(m.HTMLBody, "https://chat.example/x") || !strings.Contains(m.HTMLBody, "UGX 100,000") {
		t.Error("HTMLBody missing community link or prize")
	}
	if _, err := buildMessage("hello@foundersmonday.com", "Founders Monday Global", m); err != nil {
		t.Errorf("buildMessage() error: %v", err)
	}
}

func TestBuildVerificationEmail(t *testing.T) {
	m := BuildVerificationEmail(AccountEmailData{
		Site:              SiteData{BaseURL: "http://localhost:8080"},
		FullName:          "Ada",
		Email:             "ada@example.com",
		VerificationToken: "abc123",
	})

	if !strings.Contains(m.TextBody, "http://localhost:8080/api/v1/auth/verify?token=abc123") {
		t.Errorf("TextBody missing verification link: %s", m.TextBody)
	}
}

func TestBuildMessageValidation(t *testing.T) {
	tests := []struct {
		name string
		from string
		msg  Message
	}{
		{"missing from", "", Message{To: []string{"a@b.c"}, Subject: "s", TextBody: "b"}},
		{"blank recipients", "x@y.z", Message{To: []string{" ", ""}, Subject: "s", TextBody: "b"}},
		{"missing subject", "x@y.z", Message{To: []string{"a@b.c"}, TextBody: "b"}},
		{"missing body", "x@y.z", Message{To: []string{"a@b.c"}, Subject: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildMessage(tt.from, "", tt.msg)
			if !errors.Is(err, ErrInvalidMessage) {
				t.Errorf("buildMessage() error = %v, want ErrInvalidMessage", err)
			}
		})
	}
}
