package internaldefs

import (
	authsvc "github.com/campuscare/authsvc"
)

// CounterDef pairs an engine counter with its stable exported name.
type CounterDef struct {
	ID   authsvc.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter. Order is the exposition order.
var CounterDefs = []CounterDef{
	{ID: authsvc.MetricSignupSuccess, Name: "authsvc_signup_success_total", Help: "Successful account registrations."},
	{ID: authsvc.MetricSignupDuplicate, Name: "authsvc_signup_duplicate_total", Help: "Registrations rejected for a duplicate email."},
	{ID: authsvc.MetricLoginSuccess, Name: "authsvc_login_success_total", Help: "Password logins that passed the first factor."},
	{ID: authsvc.MetricLoginFailure, Name: "authsvc_login_failure_total", Help: "Failed password logins."},
	{ID: authsvc.MetricOTPIssued, Name: "authsvc_otp_issued_total", Help: "One-time passcodes issued at login."},
	{ID: authsvc.MetricOTPResent, Name: "authsvc_otp_resent_total", Help: "One-time passcodes reissued on request."},
	{ID: authsvc.MetricOTPVerified, Name: "authsvc_otp_verified_total", Help: "Successful passcode verifications."},
	{ID: authsvc.MetricOTPInvalid, Name: "authsvc_otp_invalid_total", Help: "Passcode verifications rejected for a wrong code."},
	{ID: authsvc.MetricOTPExpired, Name: "authsvc_otp_expired_total", Help: "Passcode verifications rejected for an expired code."},
	{ID: authsvc.MetricSessionCreated, Name: "authsvc_session_created_total", Help: "Created sessions."},
	{ID: authsvc.MetricSessionDestroyed, Name: "authsvc_session_destroyed_total", Help: "Sessions destroyed by logout."},
	{ID: authsvc.MetricAccessAllowed, Name: "authsvc_access_allowed_total", Help: "Authorized protected-resource requests."},
	{ID: authsvc.MetricAccessDenied, Name: "authsvc_access_denied_total", Help: "Rejected protected-resource requests."},
	{ID: authsvc.MetricDeliveryFailure, Name: "authsvc_delivery_failure_total", Help: "Passcode emails that failed to send."},
}
