package mailer

import (
	"strings"
	"text/template"
	"time"
)

// OTPParams is the data rendered into a passcode email.
type OTPParams struct {
	Name     string
	Code     string
	Validity time.Duration
	Resend   bool
}

const otpSubject = "Your 2FA OTP Code"
const otpResendSubject = "Your new 2FA OTP Code"

var otpBodyTemplate = template.Must(template.New("otp").Parse(`Hello {{.Name}},

Your {{if .Resend}}new {{end}}OTP is: {{.Code}}
It will expire in {{printf "%.f" .Validity.Minutes}} minutes.

If you did not request this, please ignore.
`))

// OTPMessage renders subject and body for a passcode delivery.
func OTPMessage(p OTPParams) (subject, body string) {
	subject = otpSubject
	if p.Resend {
		subject = otpResendSubject
	}

	var b strings.Builder
	if err := otpBodyTemplate.Execute(&b, p); err != nil {
		// The template is static and the data plain strings; execution
		// cannot fail at runtime, but fall back to something useful.
		return subject, "Your OTP is: " + p.Code
	}
	return subject, b.String()
}
