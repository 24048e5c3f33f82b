package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/account"
)

// MinSecretLen matches the 256-bit floor required for HS256.
const MinSecretLen = 32

var (
	ErrWeakSecret   = errors.New("jwt secret must be at least 32 bytes")
	ErrInvalidToken = errors.New("invalid token")
)

type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AccountID returns the numeric subject the token was issued for.
func (c *Claims) AccountID() (int, error) {
	id, err := strconv.Atoi(c.Subject)

	if err != nil {
		return 0, fmt.Errorf("token subject is not an account id: %w", err)
	}
	return id, nil
}

type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewManager(secret, issuer, audience string, ttl time.Duration) (*Manager, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}

	return &Manager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}, nil
}

// Issue mints a signed access token for the account. Name and email may be
// empty strings; the role claim is omitted entirely when the account has
// no role.
func (m *Manager) Issue(acct account.Account) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		Name:  acct.Name,
		Email: acct.Email,
		Role:  acct.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(acct.ID),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HMAC; anything else is an attacker-controlled header.
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
	)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.ID == "" {
		return nil, errors.New("missing jti")
	}

	return claims, nil
}
