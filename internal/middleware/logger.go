package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request and counts it.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	log := logger.Named("HTTP")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		route := c.Route().Path

		httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if userID := GetUserID(c); userID != uuid.Nil {
			fields = append(fields, zap.String("userID", userID.String()))
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("Request failed", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("Request rejected", fields...)
		default:
			log.Info("Request handled", fields...)
		}
		return nil
	}
}
