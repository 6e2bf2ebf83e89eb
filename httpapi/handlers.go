package httpapi

import (
	"errors"
	"net/http"
	"strings"

	authsvc "github.com/campuscare/authsvc"
	"github.com/campuscare/authsvc/middleware"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{OK: true, Message: "Auth service is running"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	fields, missing := decodeFields(r, "name", "email", "password")
	if len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing fields: "+strings.Join(missing, ", "))
		return
	}

	_, err := s.engine.SignUp(r.Context(), fields["name"], fields["email"], fields["password"])
	if err != nil {
		if errors.Is(err, authsvc.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		writeError(w, http.StatusInternalServerError, "Signup failed")
		return
	}

	writeJSON(w, http.StatusCreated, apiResponse{OK: true, Message: "Signup successful. Please login."})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	fields, missing := decodeFields(r, "email", "password")
	if len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing fields: "+strings.Join(missing, ", "))
		return
	}

	_, err := s.engine.Login(r.Context(), fields["email"], fields["password"])
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{OK: true, Message: "OTP sent to your email. Verify to complete login."})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	fields, missing := decodeFields(r, "email", "otp")
	if len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing fields: "+strings.Join(missing, ", "))
		return
	}

	result, err := s.engine.VerifyOTP(r.Context(), fields["email"], fields["otp"])
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrNoPendingOTP):
			writeError(w, http.StatusBadRequest, "No OTP pending for this user")
		case errors.Is(err, authsvc.ErrOTPInvalid):
			writeError(w, http.StatusUnauthorized, "Invalid OTP")
		case errors.Is(err, authsvc.ErrOTPExpired):
			writeError(w, http.StatusUnauthorized, "OTP expired. Please request a new one.")
		default:
			writeError(w, http.StatusInternalServerError, "Verification failed")
		}
		return
	}

	s.setSessionCookie(w, r, result.Token)

	writeJSON(w, http.StatusOK, apiResponse{
		OK:      true,
		Message: "Login success",
		User: &apiUser{
			ID:    result.Account.ID,
			Name:  result.Account.Name,
			Email: result.Account.Email,
		},
	})
}

func (s *Server) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	fields, missing := decodeFields(r, "email")
	if len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing fields: "+strings.Join(missing, ", "))
		return
	}

	_, err := s.engine.ResendOTP(r.Context(), fields["email"])
	if err != nil {
		if errors.Is(err, authsvc.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Resend failed")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{OK: true, Message: "New OTP sent."})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.RequestToken(r); ok {
		// Best-effort; logout reports success even for a dead session.
		_ = s.engine.Logout(r.Context(), token)
	}
	s.clearSessionCookie(w, r)
	writeJSON(w, http.StatusOK, apiResponse{OK: true, Message: "Logged out"})
}

func (s *Server) handleProtected(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{
		OK:      true,
		Message: "Hello, " + acct.Name + ". You are logged in.",
		User:    &apiUser{ID: acct.ID, Email: acct.Email},
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
