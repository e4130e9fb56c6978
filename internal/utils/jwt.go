package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA‑256 hashing for refresh tokens kept in the ledger
	"encoding/hex"  // hex encoding of digests
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"       // unique token ids
)

const (
	// DefaultAccessTTL is used when no access token lifetime is configured.
	DefaultAccessTTL = 30 * time.Minute
	// DefaultRefreshTTL is used when no refresh token lifetime is configured.
	DefaultRefreshTTL = 48 * time.Hour

	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrInvalidToken is returned by ParseToken for any token that fails
// signature, expiry or type checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by access and refresh tokens.  Subject
// holds the username; UserID and Role are copied from the account at
// issue time.
type Claims struct {
	UserID uint64 `json:"uid"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

// Token is a signed JWT along with its expiry.
type Token struct {
	Raw string    // the serialized JWT string
	Exp time.Time // the UTC expiration time
}

// TokenIssuer mints and verifies HS256 tokens with a shared secret.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer builds an issuer.  Non-positive TTLs select the defaults
// (30 minutes for access tokens, 2 days for refresh tokens).
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateAccessToken signs claims with an expiry of now+ttl.  A zero ttl
// uses the issuer's access TTL.
func (i *TokenIssuer) CreateAccessToken(claims Claims, ttl time.Duration) (Token, error) {
	if ttl <= 0 {
		ttl = i.accessTTL
	}
	claims.Type = TypeAccess
	return i.sign(claims, ttl)
}

// CreateRefreshToken signs claims with the issuer's refresh TTL.
func (i *TokenIssuer) CreateRefreshToken(claims Claims) (Token, error) {
	claims.Type = TypeRefresh
	return i.sign(claims, i.refreshTTL)
}

func (i *TokenIssuer) sign(claims Claims, ttl time.Duration) (Token, error) {
	now := i.now()
	exp := now.Add(ttl)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	// jti keeps two tokens for the same subject minted within one second distinct.
	claims.ID = uuid.NewString()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Raw: signed, Exp: exp}, nil
}

// ParseToken verifies raw and returns its claims.  wantType restricts the
// token type ("access" or "refresh"); an empty wantType accepts either.
func (i *TokenIssuer) ParseToken(raw, wantType string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if wantType != "" && claims.Type != wantType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashRefreshRaw returns the SHA‑256 hash of a refresh token as a hex
// string.  The ledger stores only this digest so that a leaked table
// cannot be replayed.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
