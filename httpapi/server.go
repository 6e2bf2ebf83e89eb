package httpapi

import (
	"encoding/json"
	"net/http"

	authsvc "github.com/campuscare/authsvc"
	"github.com/campuscare/authsvc/metrics/export/prometheus"
	"github.com/campuscare/authsvc/middleware"
)

// Server holds the route handlers for one engine.
type Server struct {
	engine *authsvc.Engine
}

// NewServer wraps the engine.
func NewServer(engine *authsvc.Engine) *Server {
	return &Server{engine: engine}
}

// Routes builds the service mux. The protected route is wrapped with the
// session guard; everything else is public.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /verify-otp", s.handleVerifyOTP)
	mux.HandleFunc("POST /resend-otp", s.handleResendOTP)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.Handle("GET /protected", middleware.Guard(s.engine)(http.HandlerFunc(s.handleProtected)))
	mux.Handle("GET /metrics", prometheus.NewPrometheusExporter(s.engine).Handler())

	return mux
}

type apiUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type apiResponse struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	User    *apiUser `json:"user,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{OK: false, Error: msg})
}

// decodeFields reads a flat JSON object and reports which of the required
// keys are missing or empty. A malformed body counts as all-missing.
func decodeFields(r *http.Request, required ...string) (map[string]string, []string) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, required
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}

	var missing []string
	for _, key := range required {
		if fields[key] == "" {
			missing = append(missing, key)
		}
	}
	return fields, missing
}
