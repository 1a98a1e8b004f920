package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Tokens struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func NewTokens(secret, issuer string) *Tokens {
	return &Tokens{Secret: []byte(secret), Issuer: issuer, TTL: 12 * time.Hour}
}

func (t *Tokens) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iss":  t.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(t.TTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Parse validates the token and returns the user id and role.
func (t *Tokens) Parse(raw string) (string, string, error) {
	token, err := jwt.Parse(raw, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.Secret, nil
	}, jwt.WithLeeway(30*time.Second)) // small clock skew
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	if iss, _ := claims["iss"].(string); iss != t.Issuer {
		return "", "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", "", ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return sub, role, nil
}
