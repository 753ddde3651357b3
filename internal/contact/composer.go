package contact

import (
	"errors"
	"fmt"
	"log/slog"
)

// Notices shown to the visitor.
const (
	MsgSent        = "Email client opened! Thank you for your message."
	MsgOpenFailed  = "There was an error. Please try again or contact me directly."
	MsgMissing     = "Please fill in all fields"
	MsgInvalidMail = "Please enter a valid email address"
)

// NoticeKind tells the view how to style a notice.
type NoticeKind string

const (
	NoticeNone    NoticeKind = ""
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is the user-visible outcome of a submission.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Opener hands a mailto URI to whatever opens the visitor's mail client.
type Opener interface {
	Open(uri string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(uri string) error

func (f OpenerFunc) Open(uri string) error { return f(uri) }

// Composer validates forms and hands the resulting mailto link to Opener.
type Composer struct {
	To     string
	Opener Opener
	Logger *slog.Logger
}

// Submit validates f, opens the mail link and clears f on success. On any
// failure f is left untouched and the notice explains what went wrong.
func (c *Composer) Submit(f *Form) (Notice, error) {
	if err := f.Validate(); err != nil {
		return Notice{Kind: NoticeError, Message: validationMessage(err)}, err
	}

	uri := MailtoURI(c.To, *f)
	if c.Opener == nil {
		return c.openFailed(errors.New("no mail opener configured"))
	}
	if err := c.Opener.Open(uri); err != nil {
		return c.openFailed(err)
	}

	f.Reset()
	return Notice{Kind: NoticeSuccess, Message: MsgSent}, nil
}

func (c *Composer) openFailed(err error) (Notice, error) {
	if c.Logger != nil {
		c.Logger.Error("contact: open mail client", "error", err)
	}
	return Notice{Kind: NoticeError, Message: MsgOpenFailed}, fmt.Errorf("open mail client: %w", err)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return MsgMissing
	case errors.Is(err, ErrInvalidEmail):
		return MsgInvalidMail
	default:
		return MsgOpenFailed
	}
}
