// Package auth issues and verifies stateless session tokens.
package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/postgate/internal/common"
	"github.com/dmitrijs2005/postgate/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed claim set carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"accountId"`
	Email     string `json:"email"`
	Verified  bool   `json:"verified"`
}

// SessionManager mints and checks HS256 session tokens. There is no
// server-side session state; a token is valid until it expires.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime of tokens minted by Issue.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs {accountId, email, verified} for account.
func (m *SessionManager) Issue(account *models.Account) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		AccountID: account.ID,
		Email:     account.Email,
		Verified:  account.Verified(),
	})

	s, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Verify checks signature and expiry of a raw token.
func (m *SessionManager) Verify(tokenString string) (*models.Claims, error) {
	if tokenString == "" {
		return nil, common.ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, common.ErrTokenMalformed
		default:
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
		}
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, common.ErrInvalidToken
	}

	return &models.Claims{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		Verified:  claims.Verified,
	}, nil
}

// VerifyBearer splits "Bearer <token>" and verifies the token.
func (m *SessionManager) VerifyBearer(raw string) (*models.Claims, error) {
	token, err := ParseBearer(raw)
	if err != nil {
		return nil, err
	}
	return m.Verify(token)
}

// ParseBearer extracts the token from a "Bearer <token>" value. Cookie
// values may arrive URL-encoded.
func ParseBearer(raw string) (string, error) {
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		raw = unescaped
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", common.ErrTokenMissing
	}

	scheme, token, ok := strings.Cut(raw, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrTokenMalformed
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.Contains(token, " ") {
		return "", common.ErrTokenMalformed
	}
	return token, nil
}

// BearerValue formats a token for the Authorization header or cookie.
func BearerValue(token string) string {
	return common.BearerScheme + " " + token
}
