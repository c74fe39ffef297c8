package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenSignature = errors.New("token signature is invalid")
	ErrTokenPurpose   = errors.New("token issued for a different purpose")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrNoSecret       = errors.New("signing secret is empty")
)

// Purpose separates access tokens from refresh tokens. It is part of the
// signed payload, so a refresh token can never pass as an access token.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
)

// Subject is the identity bound into a token
type Subject struct {
	ID        string
	Email     string
	Role      string
	FirstName string
	LastName  string
}

// Claims represents the JWT claims
type Claims struct {
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	FirstName string  `json:"given_name,omitempty"`
	LastName  string  `json:"family_name,omitempty"`
	Purpose   Purpose `json:"typ"`
	jwt.RegisteredClaims
}

// Codec signs and parses HS256 tokens with a shared secret. It holds no
// mutable state and is safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec creates a codec. issuer may be empty, in which case the iss claim
// is neither set nor checked.
func NewCodec(secret []byte, issuer string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{secret: key, issuer: issuer}, nil
}

// Issue signs a token for subject with expiry now+ttl
func (c *Codec) Issue(subject Subject, purpose Purpose, ttl time.Duration) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		Email:     subject.Email,
		Role:      subject.Role,
		FirstName: subject.FirstName,
		LastName:  subject.LastName,
		Purpose:   purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.ID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Parse verifies signature, expiry and purpose and returns the claims
func (c *Codec) Parse(tokenString string, purpose Purpose) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Purpose != purpose {
		return nil, ErrTokenPurpose
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
