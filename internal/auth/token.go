// auth — верификация access-токенов зрителя.
// Токены выпускает auth-сервис платформы (HS256); feed-service их только
// проверяет, чтобы узнать идентичность зрителя для viewer-флагов ленты
// и write-путей (лайк/закладка/комментарий).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/learnflow/feed-service/internal/config"
)

var (
	// ErrInvalidToken — токен не прошёл верификацию.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
)

type accessClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Verifier проверяет подписанные auth-сервисом access-токены.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier создает Verifier из конфигурации.
func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// VerifyAccessToken валидирует access-токен и возвращает идентификатор пользователя.
func (v *Verifier) VerifyAccessToken(tokenStr string) (uuid.UUID, error) {
	const op = "auth.VerifyAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(v.issuer),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	// uid-клейм приоритетен; fallback на Subject для совместимости.
	raw := claims.UserID
	if raw == "" {
		raw = claims.Subject
	}

	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return uid, nil
}
