// Package contact validates the contact form and turns it into a mailto link.
// Nothing is sent from the server: the link is handed to the visitor's own
// mail client.
package contact

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	// ErrMissingField means at least one field is blank.
	ErrMissingField = errors.New("please fill in all fields")
	// ErrInvalidEmail means the email is not shaped like local@domain.tld.
	ErrInvalidEmail = errors.New("please enter a valid email address")
	// ErrUnknownField is returned by Set for a field name the form lacks.
	ErrUnknownField = errors.New("unknown contact field")
)

var mailboxPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return mailboxPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Form is what the visitor typed into the contact form.
type Form struct {
	Name    string `form:"name" validate:"notblank"`
	Email   string `form:"email" validate:"notblank,mailbox"`
	Message string `form:"message" validate:"notblank"`
}

// Validate reports ErrMissingField before ErrInvalidEmail, so a blank field is
// always the first thing the visitor hears about.
func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "notblank" {
			return ErrMissingField
		}
	}
	return ErrInvalidEmail
}

// Set updates one field by its form name.
func (f *Form) Set(name, value string) error {
	switch name {
	case "name":
		f.Name = value
	case "email":
		f.Email = value
	case "message":
		f.Message = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Reset clears every field.
func (f *Form) Reset() { *f = Form{} }

// IsZero reports whether every field is empty.
func (f Form) IsZero() bool { return f == Form{} }
