package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/energy-hub/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Service — сервис авторизации. В MVP единственный режим — dev-токены:
// HS256 JWT с длинным TTL, привязка к владельцу идёт через claim "sub".
type Service struct {
	config *config.Config
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// SignInDev — dev-авторизация, выдаёт JWT с TTL из JWT_TTL_MINUTES
func (s *Service) SignInDev(ctx context.Context) (*DevAuthResponse, error) {
	_ = ctx

	const devUserID = "dev-user"

	devTTL := time.Duration(s.config.JWTTTLMinutes) * time.Minute
	if devTTL <= 0 {
		devTTL = 7 * 24 * time.Hour
	}

	accessToken, err := s.generateJWT(devUserID, devTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dev JWT: %w", err)
	}

	return &DevAuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(devTTL.Seconds()),
	}, nil
}

func (s *Service) generateJWT(userID string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT — проверка JWT токена, возвращает user ID из "sub"
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", ErrInvalidToken
		}
		return sub, nil
	}

	return "", ErrInvalidToken
}
