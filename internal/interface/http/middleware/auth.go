package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/engagement-backend/internal/domain/valueobject"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/response"
)

const contextActorKey = "actor"

// TokenParser извлекает актора из access токена.
type TokenParser interface {
	ParseAccess(token string) (valueobject.Actor, error)
}

// Auth требует валидный Bearer токен.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			response.Unauthorized(c, "требуется авторизация")
			return
		}
		actor, err := tokens.ParseAccess(raw)
		if err != nil {
			response.Unauthorized(c, "токен невалиден")
			return
		}
		c.Set(contextActorKey, actor)
		c.Next()
	}
}

// OptionalAuth подставляет актора, если токен есть и валиден. Гость проходит дальше.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearer(c); ok {
			if actor, err := tokens.ParseAccess(raw); err == nil {
				c.Set(contextActorKey, actor)
			}
		}
		c.Next()
	}
}

// RequireRoles пропускает только перечисленные роли. Ставится после Auth.
func RequireRoles(roles ...valueobject.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			response.Unauthorized(c, "требуется авторизация")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "недостаточно прав")
	}
}

func ActorFrom(c *gin.Context) (valueobject.Actor, bool) {
	v, ok := c.Get(contextActorKey)
	if !ok {
		return valueobject.Actor{}, false
	}
	actor, ok := v.(valueobject.Actor)
	return actor, ok
}

// SetActor нужен тестам обработчиков.
func SetActor(c *gin.Context, actor valueobject.Actor) {
	c.Set(contextActorKey, actor)
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		// браузерный WebSocket не умеет ставить заголовки
		if c.Request.Header.Get("Upgrade") == "websocket" {
			if token := c.Query("token"); token != "" {
				return token, true
			}
		}
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
