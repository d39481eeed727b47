package auth

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// RegisterRequest is the registration form. Field names follow the form keys.
type RegisterRequest struct {
	FullName        string `form:"reg_full_name" validate:"required"`
	Username        string `form:"reg_username" validate:"required"`
	Email           string `form:"reg_email" validate:"required,account_email"`
	Phone           string `form:"reg_phone" validate:"required,phone"`
	DateOfBirth     string `form:"reg_dob"`
	Gender          string `form:"reg_gender"`
	Address         string `form:"reg_address"`
	Company         string `form:"reg_company"`
	AccountType     string `form:"reg_account_type" validate:"required,oneof=founder member investor"`
	Password        string `form:"reg_password" validate:"required"`
	ConfirmPassword string `form:"reg_confirm_password" validate:"required,eqfield=Password"`
}

// RegisterFromValues fills a RegisterRequest by looking up each form key.
func RegisterFromValues(get func(key string) string) RegisterRequest {
	var r RegisterRequest
	v := reflect.ValueOf(&r).Elem()
	t := v.Type()
	for i := range t.NumField() {
		v.Field(i).SetString(get(t.Field(i).Tag.Get("form")))
	}
	return r
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func newValidator(region string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})

	_ = v.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		num, err := phonenumbers.Parse(fl.Field().String(), region)
		return err == nil && phonenumbers.IsPossibleNumber(num)
	})

	return v
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "account_email":
		return "Invalid email address"
	case "phone":
		return "Invalid phone number"
	case "oneof":
		return "Invalid account type"
	case "eqfield":
		return "Passwords do not match"
	default:
		return "Invalid value"
	}
}

// sanitize trims every field except the passwords and lower-cases the email.
func (r RegisterRequest) sanitize() RegisterRequest {
	pw, confirm := r.Password, r.ConfirmPassword
	v := reflect.ValueOf(&r).Elem()
	for i := range v.NumField() {
		fv := v.Field(i)
		fv.SetString(strings.TrimSpace(fv.String()))
	}
	r.Password, r.ConfirmPassword = pw, confirm
	r.Email = strings.ToLower(r.Email)
	r.AccountType = strings.ToLower(r.AccountType)
	return r
}

func (r RegisterRequest) validate(v *validator.Validate, minPassword int) error {
	fields := map[string]string{}

	if err := v.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = messageFor(fe)
		}
	}

	if _, ok := fields["reg_password"]; !ok && len([]rune(r.Password)) < minPassword {
		fields["reg_password"] = fmt.Sprintf("Password must be at least %d characters", minPassword)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// escaped returns a copy with the free-text fields HTML-escaped for storage.
// The email stays as typed (lower-cased) because it is a lookup key and a
// mail recipient.
func (r RegisterRequest) escaped() RegisterRequest {
	for _, p := range []*string{&r.FullName, &r.Username, &r.DateOfBirth, &r.Gender, &r.Address, &r.Company} {
		*p = html.EscapeString(*p)
	}
	return r
}

func normalizePhone(phone, region string) string {
	num, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return phone
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}
