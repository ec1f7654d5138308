package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

const TooManyLoginAttempts = "Too many login attempts. Please try again later."

// LoginLimiter allows max failed sign-in attempts per email within window.
// Successful sign-ins are not counted. Requests without a readable email
// are keyed by client IP.
func LoginLimiter(max int, window time.Duration, logger *zap.Logger) fiber.Handler {
	log := logger.Named("LoginLimiter")
	return limiter.New(limiter.Config{
		Max:                    max,
		Expiration:             window,
		SkipSuccessfulRequests: true,
		LimiterMiddleware:      limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			var body struct {
				Email string `json:"email"`
			}
			if err := json.Unmarshal(c.Body(), &body); err == nil {
				if email := strings.ToLower(strings.TrimSpace(body.Email)); email != "" {
					return "login:" + email
				}
			}
			return "login-ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			loginThrottledTotal.Inc()
			log.Warn("Login throttled", zap.String("ip", c.IP()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": TooManyLoginAttempts,
			})
		},
	})
}
