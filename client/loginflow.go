package client

import (
	"context"
	"errors"
	"strings"
)

type State string

const (
	StateCollectingEmail State = "collecting_email"
	StateCollectingCode  State = "collecting_code"
	StateAuthenticated   State = "authenticated"
)

// ErrInvalidTransition is returned when a submit does not apply to the
// current state, e.g. submitting a code before an email was accepted.
var ErrInvalidTransition = errors.New("login flow: action not valid in current state")

// LoginFlow drives the two-stage passwordless login: collect an email,
// collect the emailed code, done. Failed submissions keep the current
// state and record the server's message.
type LoginFlow struct {
	api     *Client
	state   State
	email   string
	token   string
	message string
}

func NewLoginFlow(api *Client) *LoginFlow {
	return &LoginFlow{api: api, state: StateCollectingEmail}
}

func (f *LoginFlow) State() State    { return f.state }
func (f *LoginFlow) Email() string   { return f.email }
func (f *LoginFlow) Token() string   { return f.token }
func (f *LoginFlow) Message() string { return f.message }

// SubmitEmail requests a code for the email and advances to code
// collection on success.
func (f *LoginFlow) SubmitEmail(ctx context.Context, email string) error {
	if f.state != StateCollectingEmail {
		return ErrInvalidTransition
	}
	f.message = ""

	if err := f.api.SendOTP(ctx, email); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			f.message = apiErr.Message
		} else {
			f.message = "Error sending OTP. Please try again."
		}
		return err
	}

	f.email = email
	f.state = StateCollectingCode
	f.message = "OTP sent to your email!"
	return nil
}

// SubmitCode verifies the code for the previously submitted email. The
// code is shaped (digits only, six at most) before being sent; the server
// remains the authority on validity.
func (f *LoginFlow) SubmitCode(ctx context.Context, code string) error {
	if f.state != StateCollectingCode {
		return ErrInvalidTransition
	}
	f.message = ""

	token, err := f.api.VerifyOTP(ctx, f.email, SanitizeCode(code))
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			f.message = apiErr.Message
		} else {
			f.message = "Error verifying OTP. Please try again."
		}
		return err
	}

	f.token = token
	f.state = StateAuthenticated
	f.message = "Logged in successfully!"
	return nil
}

// Back returns from code collection to email collection, dropping any
// pending message.
func (f *LoginFlow) Back() {
	if f.state != StateCollectingCode {
		return
	}
	f.state = StateCollectingEmail
	f.message = ""
}

// SanitizeCode strips non-digits and truncates to six characters, the
// same shaping the login form applies while the user types.
func SanitizeCode(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == 6 {
			break
		}
	}
	return b.String()
}
