package application

import (
	"errors"
	"html"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

const (
	msgRequired     = "This field is required"
	msgInvalidEmail = "Invalid email address"
	msgInvalidURL   = "Invalid URL format"
)

// Form is the raw application as posted. Field names follow the form keys.
type Form struct {
	FullName       string `form:"full_name" validate:"required"`
	Email          string `form:"email" validate:"required,founder_email"`
	Phone          string `form:"phone"`
	Country        string `form:"country" validate:"required"`
	LinkedIn       string `form:"linkedin" validate:"omitempty,abs_url"`
	Website        string `form:"website" validate:"omitempty,abs_url"`
	CompanyName    string `form:"company_name" validate:"required"`
	CompanyWebsite string `form:"company_website" validate:"omitempty,abs_url"`
	Industry       string `form:"industry" validate:"required"`
	Stage          string `form:"stage" validate:"required"`
	YearFounded    string `form:"year_founded"`
	TeamSize       string `form:"team_size"`
	Bio            string `form:"bio" validate:"required"`
	Description    string `form:"description" validate:"required"`
	Challenge      string `form:"challenge" validate:"required"`
	Achievement    string `form:"achievement" validate:"required"`
	Lesson         string `form:"lesson" validate:"required"`
	Insight        string `form:"insight" validate:"required"`
	Advice         string `form:"advice" validate:"required"`
	SocialMedia    string `form:"social_media"`
	Interview      string `form:"interview" validate:"omitempty,abs_url"`
}

// FormFields lists the accepted form keys in declaration order.
var FormFields = func() []string {
	t := reflect.TypeFor[Form]()
	out := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		out = append(out, t.Field(i).Tag.Get("form"))
	}
	return out
}()

// FormFromValues fills a Form by looking up each form key with get.
func FormFromValues(get func(key string) string) Form {
	var f Form
	v := reflect.ValueOf(&f).Elem()
	t := v.Type()
	for i := range t.NumField() {
		v.Field(i).SetString(get(t.Field(i).Tag.Get("form")))
	}
	return f
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewValidator returns a validator that reports errors under form keys and
// knows the founder_email and abs_url rules.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("founder_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("abs_url", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		return err == nil && u.Scheme != "" && u.Host != ""
	})

	return v
}

func messageFor(tag string) string {
	switch tag {
	case "required":
		return msgRequired
	case "founder_email":
		return msgInvalidEmail
	case "abs_url":
		return msgInvalidURL
	default:
		return "Invalid value"
	}
}

// Sanitize trims every field and lower-cases the email. It runs before
// validation so the required rule sees trimmed values.
func (f Form) Sanitize() Form {
	v := reflect.ValueOf(&f).Elem()
	for i := range v.NumField() {
		fv := v.Field(i)
		fv.SetString(strings.TrimSpace(fv.String()))
	}
	f.Email = strings.ToLower(f.Email)
	return f
}

// Validate collects every field error. It returns nil or a *ValidationError.
func (f Form) Validate(v *validator.Validate) error {
	err := v.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageFor(fe.Tag())
	}
	return &ValidationError{Fields: fields}
}

// Escaped returns a copy with every field except Email HTML-escaped, ready
// to store and to drop into HTML emails. Email is the duplicate-guard key
// and a mail recipient, so it keeps its sanitized form.
func (f Form) Escaped() Form {
	email := f.Email
	v := reflect.ValueOf(&f).Elem()
	for i := range v.NumField() {
		fv := v.Field(i)
		fv.SetString(html.EscapeString(fv.String()))
	}
	f.Email = email
	return f
}

// NormalizePhone formats phone as E.164 when it parses as a valid number for
// region. Anything else is returned unchanged.
func NormalizePhone(phone, region string) string {
	if phone == "" {
		return ""
	}
	num, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return phone
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
