package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
)

var ErrInvalidToken = errors.New("auth: токен невалиден")

// TokenManager проверяет access токены, выпущенные сервисом идентификации.
// Issue нужен для dev-окружения и тестов.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue выпускает access токен с клеймами sub и role.
func (m *TokenManager) Issue(actor valueobject.Actor) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub":  actor.ID.String(),
		"role": string(actor.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseAccess извлекает актора из access токена. Неизвестная роль - невалидный токен.
func (m *TokenManager) ParseAccess(token string) (valueobject.Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return valueobject.Actor{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return valueobject.Actor{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)

	userID, err := uuid.Parse(sub)
	if err != nil || userID == uuid.Nil {
		return valueobject.Actor{}, ErrInvalidToken
	}
	actor := valueobject.NewActor(userID, role)
	if !actor.Role.IsValid() {
		return valueobject.Actor{}, ErrInvalidToken
	}
	return actor, nil
}
