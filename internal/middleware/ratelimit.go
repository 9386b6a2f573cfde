package middleware

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/errors"
	"github.com/AzamovUSA/debt-control/internal/ratelimit"
)

// RateLimitMiddleware enforces per-user and per-command rate limits for
// incoming Telegram updates.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	rules   *ratelimit.Rules
	log     *slog.Logger
}

// NewRateLimitMiddleware constructs a rate-limit middleware component.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, rules *ratelimit.Rules, log *slog.Logger) *RateLimitMiddleware {
	if log == nil {
		log = slog.Default()
	}

	return &RateLimitMiddleware{
		limiter: limiter,
		rules:   rules,
		log:     log,
	}
}

// Handle returns a telebot middleware that enforces the configured limits.
func (m *RateLimitMiddleware) Handle(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		if m.limiter == nil || m.rules == nil {
			return next(c)
		}

		sender := c.Sender()
		if sender == nil {
			return next(c)
		}

		userID := sender.ID
		if m.rules.IsWhitelisted(userID) {
			return next(c)
		}

		if allowed, window, err := m.check(c, fmt.Sprintf("user:%d", userID), m.rules.GetPerUserLimit); err == nil && !allowed {
			m.log.Warn("rate limit exceeded", slog.Int64("user_id", userID))
			return m.reject(c, window)
		}

		if command := classifyCommand(c); command != "" {
			key := fmt.Sprintf("cmd:%s:%d", command, userID)
			if allowed, window, err := m.check(c, key, func() (int, time.Duration, error) {
				return m.rules.GetCommandLimit(command)
			}); err == nil && !allowed {
				m.log.Warn("command rate limit exceeded",
					slog.Int64("user_id", userID),
					slog.String("command", command),
				)
				return m.reject(c, window)
			}
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) check(c telebot.Context, key string, rule func() (int, time.Duration, error)) (bool, time.Duration, error) {
	limit, window, err := rule()
	if err != nil || limit <= 0 {
		return true, window, err
	}

	result, err := m.limiter.Check(context.Background(), key, limit, window)
	if goerrors.Is(err, ratelimit.ErrLimitExceeded) {
		return false, window, nil
	}
	if err != nil {
		// Limiter backend failure: fail open rather than blocking users.
		m.log.Warn("rate limiter error", slog.String("key", key), slog.Any("error", err))
		return true, window, err
	}

	return result.Allowed, window, nil
}

func (m *RateLimitMiddleware) reject(c telebot.Context, window time.Duration) error {
	retryAfter := int(window.Seconds())
	if retryAfter <= 0 {
		retryAfter = 60
	}

	return c.Send(errors.NewRateLimitError(retryAfter).UserMessage)
}

// classifyCommand maps an update to the rate-limit rule it falls under.
func classifyCommand(c telebot.Context) string {
	if cb := c.Callback(); cb != nil {
		data := strings.TrimSpace(cb.Data)
		switch {
		case strings.HasPrefix(data, "paid:"):
			return ratelimit.CommandMarkPaid
		case strings.HasPrefix(data, "filter:"), strings.HasPrefix(data, "page:"):
			return ratelimit.CommandList
		}
		return ""
	}

	fields := strings.Fields(c.Text())
	if len(fields) == 0 {
		return ""
	}

	switch fields[0] {
	case "/add":
		return ratelimit.CommandAdd
	case "/list", "/start":
		return ratelimit.CommandList
	}

	return ""
}
