package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ignatzorin/engagement-backend/internal/interface/http/response"
	"github.com/ignatzorin/engagement-backend/internal/logger"
)

// RateLimit ограничивает изменяющие запросы: ключ - пользователь, для гостя - IP.
// GET и OPTIONS не ограничиваются.
func RateLimit(limit int64, period time.Duration) gin.HandlerFunc {
	instance := limiter.New(memory.NewStore(), limiter.Rate{Period: period, Limit: limit})

	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if actor, ok := ActorFrom(c); ok {
			key = "user:" + actor.ID.String()
		}

		lctx, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			// лимитер в памяти не должен падать; пропускаем запрос
			logger.Log.WithFields(logrus.Fields{"error": err.Error()}).Warn("rate limit: ошибка хранилища")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			response.TooManyRequests(c, "слишком много запросов, попробуйте позже")
			return
		}
		c.Next()
	}
}
