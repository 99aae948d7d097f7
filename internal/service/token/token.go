// Package token issues and validates the cookie-based access/refresh token
// pair that backs sessions. Refresh tokens are persisted and revocable.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ferremix/storefront/internal/models"
	"github.com/ferremix/storefront/internal/store"
)

const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"

	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour

	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID  string
	IsAdmin bool
}

type Service struct {
	Store         store.Store
	JWTSecret     []byte
	RefreshSecret []byte
}

func roleOf(u *models.User) string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

func (s *Service) IssueAccess(u *models.User) (string, time.Time, error) {
	exp := time.Now().Add(AccessTTL)
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": roleOf(u),
		"exp":  exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.JWTSecret)
	return signed, exp, err
}

// IssueRefresh signs a refresh token and persists it for later revocation.
func (s *Service) IssueRefresh(ctx context.Context, u *models.User) (string, time.Time, error) {
	exp := time.Now().Add(RefreshTTL)
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": roleOf(u),
		"exp":  exp.Unix(),
		"typ":  "refresh",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.RefreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	err = s.Store.RefreshTokens().Create(ctx, &models.RefreshToken{
		Token:     signed,
		UserID:    u.ID,
		ExpiresAt: exp,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Service) ParseAccess(raw string) (*Claims, error) {
	claims, err := parseHS256(raw, s.JWTSecret)
	if err != nil {
		return nil, err
	}
	return fromMapClaims(claims)
}

// Rotate validates a refresh token against its stored row, revokes it and
// issues a fresh access/refresh pair.
func (s *Service) Rotate(ctx context.Context, rawRefresh string) (string, string, *Claims, error) {
	mapClaims, err := parseHS256(rawRefresh, s.RefreshSecret)
	if err != nil {
		return "", "", nil, err
	}
	if typ, _ := mapClaims["typ"].(string); typ != "refresh" {
		return "", "", nil, fmt.Errorf("%w: not a refresh token", ErrInvalidToken)
	}

	stored, err := s.Store.RefreshTokens().ByToken(ctx, rawRefresh)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", nil, fmt.Errorf("%w: unknown refresh token", ErrInvalidToken)
		}
		return "", "", nil, err
	}
	if stored.Revoked {
		return "", "", nil, fmt.Errorf("%w: refresh token revoked", ErrInvalidToken)
	}
	if time.Now().After(stored.ExpiresAt) {
		return "", "", nil, fmt.Errorf("%w: refresh token expired", ErrInvalidToken)
	}

	user, err := s.Store.Users().ByID(ctx, stored.UserID)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: user gone", ErrInvalidToken)
	}

	if err := s.Store.RefreshTokens().Revoke(ctx, rawRefresh); err != nil {
		return "", "", nil, err
	}
	access, _, err := s.IssueAccess(user)
	if err != nil {
		return "", "", nil, err
	}
	refresh, _, err := s.IssueRefresh(ctx, user)
	if err != nil {
		return "", "", nil, err
	}
	return access, refresh, &Claims{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

func (s *Service) Revoke(ctx context.Context, raw string) error {
	return s.Store.RefreshTokens().Revoke(ctx, raw)
}

func parseHS256(raw string, secret []byte) (jwt.MapClaims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: cannot parse claims", ErrInvalidToken)
	}
	return claims, nil
}

func fromMapClaims(claims jwt.MapClaims) (*Claims, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	role, _ := claims["role"].(string)
	return &Claims{UserID: sub, IsAdmin: role == RoleAdmin}, nil
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
