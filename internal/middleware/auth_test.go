package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
	"github.com/gearbase/cmms-server-go/internal/util"
)

type stubSessionRepo struct {
	findByTokenHashFunc func(ctx context.Context, tokenHash string) (*model.AuthSession, error)
}

func (m *stubSessionRepo) FindByID(ctx context.Context, id string) (*model.AuthSession, error) {
	return nil, nil
}

func (m *stubSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
	if m.findByTokenHashFunc != nil {
		return m.findByTokenHashFunc(ctx, tokenHash)
	}
	return nil, nil
}

func (m *stubSessionRepo) Create(ctx context.Context, params model.CreateAuthSessionParams) (*model.AuthSession, error) {
	return nil, nil
}

func (m *stubSessionRepo) Revoke(ctx context.Context, id string) error {
	return nil
}

func (m *stubSessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	return nil
}

func (m *stubSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *stubSessionRepo) WithTx(tx *sqlx.Tx) repository.AuthSessionRepository {
	return m
}

type stubProfileRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Profile, error)
}

func (m *stubProfileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *stubProfileRepo) Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error) {
	return nil, nil
}

func (m *stubProfileRepo) Update(ctx context.Context, id string, params model.UpdateProfileParams) (*model.Profile, error) {
	return nil, nil
}

func (m *stubProfileRepo) SetCurrentCompany(ctx context.Context, id string, companyID string) error {
	return nil
}

func (m *stubProfileRepo) WithTx(tx *sqlx.Tx) repository.ProfileRepository {
	return m
}

func TestAuthMiddleware(t *testing.T) {
	testSession := &model.AuthSession{
		ID:     "sess-123",
		UserID: "user-123",
	}
	testProfile := &model.Profile{
		ID:       "user-123",
		FullName: "Kim",
		Role:     model.RoleCompanyTechnician,
	}
	validToken := "valid-token"
	validTokenHash := util.HashToken("", validToken)

	newStubs := func() (*stubSessionRepo, *stubProfileRepo) {
		sessionRepo := &stubSessionRepo{
			findByTokenHashFunc: func(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
				if tokenHash == validTokenHash {
					return testSession, nil
				}
				return nil, nil
			},
		}
		profileRepo := &stubProfileRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Profile, error) {
				if id == testProfile.ID {
					return testProfile, nil
				}
				return nil, nil
			},
		}
		return sessionRepo, profileRepo
	}

	t.Run("allows request with valid bearer token", func(t *testing.T) {
		sessionRepo, profileRepo := newStubs()
		m := NewAuthMiddleware(sessionRepo, profileRepo, "")
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			require.NotNil(t, session)
			assert.Equal(t, "sess-123", session.ID)
			profile := GetProfile(r.Context())
			require.NotNil(t, profile)
			assert.Equal(t, "user-123", profile.ID)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("allows request with query token", func(t *testing.T) {
		sessionRepo, profileRepo := newStubs()
		m := NewAuthMiddleware(sessionRepo, profileRepo, "")
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/test?token="+validToken, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects request without token", func(t *testing.T) {
		m := NewAuthMiddleware(&stubSessionRepo{}, &stubProfileRepo{}, "")
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects request with invalid token", func(t *testing.T) {
		sessionRepo, profileRepo := newStubs()
		m := NewAuthMiddleware(sessionRepo, profileRepo, "")
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		var logBuf bytes.Buffer
		origLogger := log.Logger
		log.Logger = zerolog.New(&logBuf)
		defer func() { log.Logger = origLogger }()

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer wrong-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, logBuf.String(), `"event_type":"auth_failure"`)
	})

	t.Run("looks sessions up by keyed digest when a secret is set", func(t *testing.T) {
		secret := "mw-test-secret"
		keyedHash := util.HashToken(secret, validToken)
		var lookedUp string
		sessionRepo := &stubSessionRepo{
			findByTokenHashFunc: func(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
				lookedUp = tokenHash
				if tokenHash == keyedHash {
					return testSession, nil
				}
				return nil, nil
			},
		}
		_, profileRepo := newStubs()
		m := NewAuthMiddleware(sessionRepo, profileRepo, secret)
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, keyedHash, lookedUp)
		assert.NotEqual(t, validTokenHash, lookedUp)
	})

	t.Run("rejects recovery session on regular routes", func(t *testing.T) {
		recoverySession := &model.AuthSession{
			ID:       "sess-recovery",
			UserID:   "user-123",
			Recovery: true,
		}
		sessionRepo := &stubSessionRepo{
			findByTokenHashFunc: func(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
				return recoverySession, nil
			},
		}
		m := NewAuthMiddleware(sessionRepo, &stubProfileRepo{}, "")
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("recovery handler accepts recovery session", func(t *testing.T) {
		recoverySession := &model.AuthSession{
			ID:       "sess-recovery",
			UserID:   "user-123",
			Recovery: true,
		}
		sessionRepo := &stubSessionRepo{
			findByTokenHashFunc: func(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
				return recoverySession, nil
			},
		}
		m := NewAuthMiddleware(sessionRepo, &stubProfileRepo{}, "")
		handler := m.RecoveryHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			require.NotNil(t, session)
			assert.True(t, session.Recovery)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("POST", "/password", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("returns 500 on database error", func(t *testing.T) {
		sessionRepo := &stubSessionRepo{
			findByTokenHashFunc: func(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
				return nil, errors.New("database error")
			},
		}
		m := NewAuthMiddleware(sessionRepo, &stubProfileRepo{}, "")
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetProfile(t *testing.T) {
	t.Run("returns profile from context", func(t *testing.T) {
		profile := &model.Profile{ID: "test-id"}
		ctx := context.WithValue(context.Background(), ProfileContextKey, profile)

		result := GetProfile(ctx)

		require.NotNil(t, result)
		assert.Equal(t, "test-id", result.ID)
	})

	t.Run("returns nil when no profile in context", func(t *testing.T) {
		result := GetProfile(context.Background())
		assert.Nil(t, result)
	})
}
