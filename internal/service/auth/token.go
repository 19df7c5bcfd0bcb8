package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkoval/cinetix/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the verified content of an access token.
type Claims struct {
	UserID int64
	Role   domain.Role
	Exp    time.Time
}

// NewAccessToken signs an HS256 JWT with sub, role, exp and iat claims.
func NewAccessToken(secret string, userID int64, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	const op = "auth.NewAccessToken"

	now := time.Now().UTC()
	exp := now.Add(ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	})

	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, exp, nil
}

// ParseToken verifies the signature and expiry and extracts the claims.
// Any malformed, expired or forged token comes back as ErrInvalidToken.
func ParseToken(secret, raw string) (*Claims, error) {
	const op = "auth.ParseToken"

	t, err := jwt.Parse(raw,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	mc, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	sub, err := mc.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	role, _ := mc["role"].(string)
	if role != string(domain.RoleGuest) && role != string(domain.RoleAdmin) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &Claims{
		UserID: userID,
		Role:   domain.Role(role),
		Exp:    exp.Time,
	}, nil
}
