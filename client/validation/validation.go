// Package validation checks user forms before they are sent to the API.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid matches every Errors value.
var ErrInvalid = errors.New("invalid form")

var (
	emailExpr    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperExpr    = regexp.MustCompile(`[A-Z]`)
	nonWordExpr  = regexp.MustCompile(`\W`)
	passwordExpr = regexp.MustCompile(`^[a-zA-Z0-9\W]{8,}$`)
	mobileExpr   = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// HiddenAPIKeyPrefix marks a masked key as returned by the settings endpoint.
const HiddenAPIKeyPrefix = "****"

// messages maps "<field>.<rule>" to the translation key shown to the user.
var messages = map[string]string{
	"email.required":                "invalidEmail",
	"email.address":                 "invalidEmail",
	"password.required":             "passwordValidation",
	"password.password":             "passwordValidation",
	"password_confirmation.eqfield": "passwordsDoNotMatch",
	"salutation.required":           "salutationIsRequired",
	"firstname.required":            "firstnameIsRequired",
	"lastname.required":             "lastnameIsRequired",
	"company.required":              "companyIsRequired",
	"address.required":              "addressIsRequired",
	"postalcode.required":           "zipIsRequired",
	"city.required":                 "cityIsRequired",
	"mobile.required":               "mobileIsRequired",
	"mobile.mobile":                 "validPhonenumber",
	"country.required":              "countryIsRequired",
	"publisher_name.required":       "publisherNameRequired",
	"publisher_id.required":         "publisherIdRequired",
	"api_key.required":              "apiKeyRequired",
	"api_key.apikey":                "apiKeyRequired",
	"token.required":                "tokenIsRequired",
	"username.required":             "invalidEmail",
	"name.required":                 "publisherNameRequired",
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Errors lists the failed fields of a form in declaration order.
type Errors []FieldError

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for _, item := range e {
		fields = append(fields, item.Field+": "+item.Message)
	}
	return ErrInvalid.Error() + ": " + strings.Join(fields, ", ")
}

func (e Errors) Is(target error) bool {
	return target == ErrInvalid
}

// Field returns the message of the first failed rule of field.
func (e Errors) Field(name string) (string, bool) {
	for _, item := range e {
		if item.Field == name {
			return item.Message, true
		}
	}
	return "", false
}

var (
	once     sync.Once
	instance *validator.Validate
)

func validate() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = instance.RegisterValidation("address", func(fl validator.FieldLevel) bool {
			return Email(fl.Field().String())
		})
		_ = instance.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return Password(fl.Field().String())
		})
		_ = instance.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return Mobile(fl.Field().String())
		})
		_ = instance.RegisterValidation("apikey", func(fl validator.FieldLevel) bool {
			return !strings.HasPrefix(fl.Field().String(), HiddenAPIKeyPrefix)
		})
	})
	return instance
}

// Email reports whether s is an acceptable email address.
func Email(s string) bool {
	return emailExpr.MatchString(s)
}

// Password requires at least 8 characters with an upper case letter and a
// special character; underscores are not allowed.
func Password(s string) bool {
	return passwordExpr.MatchString(s) && upperExpr.MatchString(s) && nonWordExpr.MatchString(s)
}

// Mobile accepts 10 to 15 digits.
func Mobile(s string) bool {
	return mobileExpr.MatchString(s)
}

// Struct validates form and returns Errors when any rule fails.
func Struct(form any) error {
	err := validate().Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	ret := make(Errors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		ret = append(ret, FieldError{Field: fe.Field(), Rule: fe.Tag(), Message: message(fe.Field(), fe.Tag())})
	}
	return ret
}

func message(field, rule string) string {
	if key, ok := messages[field+"."+rule]; ok {
		return key
	}
	return field + "Invalid"
}
