// Package ecosmock is a deterministic in-process stand-in for the ECOS
// cloud API. It reproduces the vendor's envelope format, error codes and
// synthetic time-series payloads so the client can be tested against known
// fixtures without touching the real service.
package ecosmock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"

	"github.com/gmasse/ecos-go/pkg/log"
)

// Fixture identifiers served by the mock. The shared home (homeType 0) is
// empty; the regular home owns the one device.
const (
	SharedHomeID = "1234567890123456789"
	HomeID       = "9876543210987654321"
	DeviceID     = "1234567890123456789"
	DeviceAlias  = "My Device"
	DeviceSerial = "SHC000000000000001"
)

const (
	defaultEmail    = "test@test.com"
	defaultPassword = "test"
)

// envelope mirrors the vendor's response wrapper.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
}

// Server is the mock vendor API. Construct it with NewServer, then either
// mount Handler on an httptest server or call Run for a standalone listener.
type Server struct {
	email        string
	password     string
	accessToken  string
	refreshToken string
	listenAddr   string
	now          func() time.Time
	httpServer   *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAccount sets the email/password pair accepted by the login endpoint.
func WithAccount(email, password string) Option {
	return func(s *Server) {
		s.email = email
		s.password = password
	}
}

// WithListenAddr sets the address Run listens on.
func WithListenAddr(addr string) Option {
	return func(s *Server) {
		s.listenAddr = addr
	}
}

// WithClock replaces the time source used for synthetic series.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates a mock ECOS API. The issued token pair is random but
// fixed for the lifetime of the instance.
func NewServer(opts ...Option) *Server {
	s := &Server{
		email:      defaultEmail,
		password:   defaultPassword,
		listenAddr: ":8080",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	base := randomString(alnum, 20) + "." + randomString(alnum, 155)
	s.accessToken = base + randomString(alnum+"-_", 86)
	s.refreshToken = base + randomString(alnum+"-_", 86)
	return s
}

func randomString(allowed string, length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = allowed[rand.Intn(len(allowed))]
	}
	return string(b)
}

// AccessToken returns the token issued to a successful login.
func (s *Server) AccessToken() string { return s.accessToken }

// RefreshToken returns the refresh token issued to a successful login.
func (s *Server) RefreshToken() string { return s.refreshToken }

// Handler returns the full route set, gzip-wrapped.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/client/guide/login", s.handleLogin)
	mux.HandleFunc("GET /api/client/settings/user/info", s.protected(s.handleUserInfo))
	mux.HandleFunc("GET /api/client/v2/home/family/query", s.protected(s.handleHomes))
	mux.HandleFunc("GET /api/client/v2/home/device/query", s.protected(s.handleHomeDevices))
	mux.HandleFunc("GET /api/client/home/device/list", s.protected(s.handleAllDevices))
	mux.HandleFunc("POST /api/client/home/now/device/realtime", s.protected(s.handleTodayDeviceData))
	mux.HandleFunc("GET /api/client/v2/home/device/runData", s.protected(s.handleHomeRunData))
	mux.HandleFunc("POST /api/client/home/now/device/runData", s.protected(s.handleDeviceRunData))
	mux.HandleFunc("POST /api/client/home/history/home", s.protected(s.handleHistory))
	mux.HandleFunc("POST /api/client/v2/device/three/device/insight", s.protected(s.handleInsight))
	mux.HandleFunc("/", s.handleCatchAll)
	return gziphandler.GzipHandler(mux)
}

// protected rejects requests whose Authorization header does not carry the
// issued access token, the way the vendor does: HTTP 401 with an envelope
// body.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != s.accessToken {
			writeJSON(w, http.StatusUnauthorized, envelope{
				Code:    401,
				Message: "Unauthorized",
				Success: false,
			})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

// writeData wraps a payload in a success envelope.
func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Code: 0, Message: "success", Success: true, Data: data})
}

// writeCode writes a business failure envelope with HTTP 200, as the vendor
// does for body-level errors.
func writeCode(w http.ResponseWriter, code int, message string) {
	writeJSON(w, http.StatusOK, envelope{Code: code, Message: message, Success: false})
}

type loginRequest struct {
	T             int64  `json:"_t"`
	ClientType    string `json:"clientType"`
	ClientVersion string `json:"clientVersion"`
	Email         string `json:"email"`
	Password      string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCode(w, 20000, "invalid request body")
		return
	}

	// Field validation mirrors the vendor: code 20000 with a per-field data
	// map, message set to the last failing field's text.
	fieldErrors := map[string]string{}
	message := ""
	if req.ClientVersion == "" {
		fieldErrors["clientVersion"] = "cannot be blank"
		message = "cannot be blank"
	}
	if req.ClientType != "BROWSER" {
		fieldErrors["clientType"] = "Invalid terminal type"
		message = "Invalid terminal type"
	}
	if req.Email == "" {
		fieldErrors["email"] = "cannot be blank"
		message = "cannot be blank"
	}
	if req.Password == "" {
		fieldErrors["password"] = "cannot be blank"
		message = "cannot be blank"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusOK, envelope{
			Code:    20000,
			Message: message,
			Success: false,
			Data:    fieldErrors,
		})
		return
	}

	if req.Email != s.email || req.Password != s.password {
		writeCode(w, 20414, "Account or password or country error")
		return
	}

	writeData(w, map[string]string{
		"accessToken":  s.accessToken,
		"refreshToken": s.refreshToken,
	})
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]any{
		"username":            s.email,
		"nickname":            "Test",
		"email":               s.email,
		"phone":               "",
		"timeZoneId":          "209",
		"timeZone":            "GMT-05:00",
		"timezoneName":        "America/Toronto",
		"datacenterPhoneCode": 49,
		"datacenter":          "EU",
		"datacenterHost":      "https://api-ecos-eu.weiheng-tech.com",
	})
}

func (s *Server) handleCatchAll(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/client/") {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"timestamp": s.now().UnixMilli(),
			"status":    404,
			"error":     "Not Found",
			"message":   "",
			"path":      strings.TrimPrefix(r.URL.Path, "/api/client"),
		})
		return
	}
	if r.URL.Path == "/api/client" {
		http.Redirect(w, r, "/api/client/", http.StatusMovedPermanently)
		return
	}
	http.Error(w, "bad gateway", http.StatusBadGateway)
}

// Run starts the HTTP server and blocks until the context is canceled or an
// error occurs, shutting down gracefully on cancellation.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting mock ecos api", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down mock ecos api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}
