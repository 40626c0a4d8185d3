package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Token constants                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	// HeaderToken is the custom header clients may send the token in.
	HeaderToken = "x-access-token"

	// MinSecretLen is the shortest accepted signing secret.
	MinSecretLen = 32

	claimEmail    = "email"
	claimUsername = "username"
)

var (
	ErrSecretEmpty  = errors.New("jwt secret is empty; provide ≥32 random chars")
	ErrInvalidToken = errors.New("invalid or expired token")
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// Caller is what a verified token carries and what is injected into r.Context().
type Caller struct {
	ID       string
	Email    string
	Username string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the caller and a “found?” flag.
func CurrentUser(r *http.Request) (*Caller, bool) {
	u, ok := r.Context().Value(currentUserKey).(*Caller)
	return u, ok
}

// WithTestUser injects u into the request context. Tests use it to
// bypass token verification.
func WithTestUser(r *http.Request, u *Caller) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Token manager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

// NewTokenManager builds a TokenManager. Secrets shorter than MinSecretLen
// are accepted with a warning.
func NewTokenManager(secret string, ttl time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrSecretEmpty
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(secret) < MinSecretLen {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		log:    logger,
		now:    time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for c.
func (m *TokenManager) Issue(c Caller) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub":         c.ID,
		claimEmail:    c.Email,
		claimUsername: c.Username,
		"jti":         uuid.NewString(),
		"iat":         now.Unix(),
		"exp":         now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token and returns its caller.
func (m *TokenManager) Verify(tokenString string) (*Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims[claimEmail].(string)
	username, _ := claims[claimUsername].(string)
	return &Caller{ID: sub, Email: email, Username: username}, nil
}

// TokenFromRequest reads the token from x-access-token or an
// "Authorization: Bearer" header.
func TokenFromRequest(r *http.Request) string {
	if t := strings.TrimSpace(r.Header.Get(HeaderToken)); t != "" {
		return t
	}
	h := r.Header.Get("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// LoadCaller injects the caller into context when the request carries a
// valid token. Requests without one pass through untouched.
func (m *TokenManager) LoadCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := TokenFromRequest(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		c, err := m.Verify(raw)
		if err != nil {
			m.log.Debug("rejected access token", zap.String("path", r.URL.Path), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withUser(r, c))
	})
}

// RequireSignedIn ensures there is a caller in context (set by LoadCaller).
// Otherwise it answers 401 with the standard JSON error body.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		writeUnauthorized(w)
	})
}

// helpers

func withUser(r *http.Request, u *Caller) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": "authentication token is invalid or missing",
		"code":    "UNAUTHORIZED",
		"status":  http.StatusUnauthorized,
	})
}
