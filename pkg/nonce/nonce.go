package nonce

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Validity caps how long a widget nonce may be used before the client must
// bootstrap again.
const Validity = time.Hour

var (
	ErrInvalid = errors.New("invalid nonce")
	ErrExpired = errors.New("nonce expired")
)

// Issuer mints and validates widget nonces. A nonce is a signed token
// carrying the widget session id, so resetting a session rotates the nonce
// implicitly.
type Issuer struct {
	secret []byte
	// now is replaceable in tests
	now func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue signs a nonce for sessionID. When sessionID is empty a fresh
// session id is minted alongside the nonce.
func (i *Issuer) Issue(sessionID string) (nonce string, session string, err error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	claims := jwt.MapClaims{
		"session_id": sessionID,
		"iat":        i.now().Unix(),
		"exp":        i.now().Add(Validity).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", "", err
	}
	return signed, sessionID, nil
}

// Validate checks the nonce signature and expiry and returns the session id
// it carries.
func (i *Issuer) Validate(nonce string) (string, error) {
	token, err := jwt.Parse(nonce, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalid
	}
	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", ErrInvalid
	}
	return sessionID, nil
}
