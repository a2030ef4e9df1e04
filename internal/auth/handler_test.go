package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/salonora/salonora/internal/shared"
)

type memoryRepo struct {
	accounts map[string]*Account
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*Account, error) {
	acc, ok := r.accounts[strings.ToLower(email)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return acc, nil
}

func newFixture(t *testing.T) (*Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &memoryRepo{accounts: map[string]*Account{
		"owner@demo.salon": {
			ID:           "mgr-1",
			SalonID:      "salon-1",
			Name:         "Demo Owner",
			Email:        "owner@demo.salon",
			PasswordHash: string(hash),
			IsActive:     true,
		},
		"closed@demo.salon": {
			ID:           "mgr-2",
			SalonID:      "salon-1",
			Email:        "closed@demo.salon",
			PasswordHash: string(hash),
			IsActive:     false,
		},
	}}

	sessions := shared.NewSessionManager(client, "salonora_session", "session-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(repo), sessions, csrf), sessions
}

// newRouter injects a fresh session the way the middleware stack does.
func newRouter(h *Handler, sessions *shared.SessionManager, capture **shared.Session) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, _ := sessions.Load(req.Context(), req)
			if capture != nil {
				*capture = sess
			}
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route("/auth", h.MountRoutes)
	return r
}

func TestLoginBindsSessionToSalon(t *testing.T) {
	h, sessions := newFixture(t)
	var sess *shared.Session
	router := newRouter(h, sessions, &sess)

	body := strings.NewReader(`{"email":"owner@demo.salon","password":"correct-horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "mgr-1", sess.User())
	require.Equal(t, "salon-1", sess.Salon())

	var out struct {
		Data struct {
			Manager   map[string]any `json:"manager"`
			CSRFToken string         `json:"csrf_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Equal(t, "salon-1", out.Data.Manager["salon_id"])
	require.NotEmpty(t, out.Data.CSRFToken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h, sessions := newFixture(t)
	var sess *shared.Session
	router := newRouter(h, sessions, &sess)

	body := strings.NewReader(`{"email":"owner@demo.salon","password":"wrong-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, sess.User())
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	h, sessions := newFixture(t)
	router := newRouter(h, sessions, nil)

	body := strings.NewReader(`{"email":"closed@demo.salon","password":"correct-horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCSRFTokenStableForSession(t *testing.T) {
	csrf := shared.NewCSRFManager("csrf-secret")
	sess := &shared.Session{ID: "sess-1"}

	token, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	require.NoError(t, csrf.VerifyToken(context.Background(), sess, token))
	require.Error(t, csrf.VerifyToken(context.Background(), sess, token+"x"))
}
