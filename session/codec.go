package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/Sajjadhussain197/umsfront/internal/errors"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is written to and required in every session token
const Issuer = "umsfront"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// tokenClaims is the wire form of a Claim
type tokenClaims struct {
	Role  string `json:"role,omitempty"`
	SID   string `json:"sid,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

// Codec signs and verifies session tokens with HMAC-SHA256
type Codec struct {
	secret []byte
	maxAge time.Duration
	parser *jwtlib.Parser
}

// NewCodec creates a codec. Tokens it issues expire after maxAge.
func NewCodec(secret []byte, maxAge time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("[session NewCodec] secret is required")
	}
	if maxAge <= 0 {
		return nil, errors.New("[session NewCodec] maxAge must be positive")
	}

	return &Codec{
		secret: append([]byte(nil), secret...),
		maxAge: maxAge,
		parser: jwtlib.NewParser(
			jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
			jwtlib.WithIssuer(Issuer),
			jwtlib.WithExpirationRequired(),
			jwtlib.WithIssuedAt(),
			jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }),
		),
	}, nil
}

// MaxAge is the lifetime of issued tokens
func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}

// Encode signs a token for the claim. IssuedAt and ExpiresAt are set by the codec.
func (c *Codec) Encode(claim Claim) (string, error) {
	if strings.TrimSpace(claim.SubjectID) == "" {
		return "", fmt.Errorf("[session Encode] subject is required: %w", apperrors.ErrInvalidToken)
	}

	now := NowTimeFunc()
	claims := tokenClaims{
		Role:  claim.Role,
		SID:   claim.SessionID,
		Name:  claim.Name,
		Email: claim.Email,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   claim.SubjectID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.maxAge)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("[session Encode] failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature, issuer and expiry and returns the typed claim.
// Errors wrap ErrTokenExpired or ErrInvalidToken.
func (c *Codec) Decode(raw string) (*Claim, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("[session Decode] empty token: %w", apperrors.ErrInvalidToken)
	}

	var claims tokenClaims
	token, err := c.parser.ParseWithClaims(raw, &claims, c.verificationKey)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, fmt.Errorf("[session Decode] %w", apperrors.ErrTokenExpired)
		}
		return nil, fmt.Errorf("[session Decode] %w: %v", apperrors.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("[session Decode] %w", apperrors.ErrInvalidToken)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("[session Decode] missing subject: %w", apperrors.ErrInvalidToken)
	}

	claim := &Claim{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		SessionID: claims.SID,
		Name:      claims.Name,
		Email:     claims.Email,
	}
	if claims.IssuedAt != nil {
		claim.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		claim.ExpiresAt = claims.ExpiresAt.Time
	}
	return claim, nil
}

// Resolve is the fail-closed form of Decode: any failure yields nil
func (c *Codec) Resolve(raw string) *Claim {
	claim, err := c.Decode(raw)
	if err != nil {
		return nil
	}
	return claim
}

func (c *Codec) verificationKey(token *jwtlib.Token) (any, error) {
	if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return c.secret, nil
}
