package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/domain"
	apperrors "github.com/AzamovUSA/debt-control/internal/errors"
	"github.com/AzamovUSA/debt-control/internal/repository"
	"github.com/AzamovUSA/debt-control/internal/usercache"
)

const cacheTTL = 10 * time.Minute

// Service resolves the debt-book owner behind an incoming update.
type Service struct {
	repo  repository.UserRepository
	cache *usercache.Cache
	log   *slog.Logger

	fallbackID   int64
	fallbackName string
}

// NewService constructs a new Service instance. The cache is optional.
func NewService(repo repository.UserRepository, cache *usercache.Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, log: log}
}

// WithFallbackIdentity configures the identity used when an update carries no
// sender, mirroring the placeholder profile shown outside a real chat session.
func (s *Service) WithFallbackIdentity(telegramID int64, name string) *Service {
	s.fallbackID = telegramID
	s.fallbackName = name
	return s
}

// ResolveOrCreate fetches the owner profile by telegram ID, creating it on
// first contact. A missing sender falls back to the configured placeholder.
func (s *Service) ResolveOrCreate(ctx context.Context, sender *telebot.User) (*domain.User, error) {
	telegramID, name, premium := s.identity(sender)

	if cached, err := s.cache.Get(ctx, telegramID); err == nil && cached != nil {
		return cached, nil
	}

	user, err := s.repo.FindByTelegramID(ctx, telegramID)
	if err == nil {
		if user.IsPremium != premium {
			user.IsPremium = premium
		}
		s.cacheProfile(ctx, user)
		return user, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		s.logError("resolve.find", telegramID, err)
		return nil, apperrors.NewIdentityError(fmt.Errorf("find user: %w", err))
	}

	newUser := &domain.User{
		TelegramID: telegramID,
		Name:       name,
		IsPremium:  premium,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		s.logError("resolve.create", telegramID, err)
		return nil, apperrors.NewIdentityError(fmt.Errorf("create user: %w", err))
	}

	s.cacheProfile(ctx, newUser)
	return newUser, nil
}

func (s *Service) identity(sender *telebot.User) (int64, string, bool) {
	if sender == nil {
		return s.fallbackID, s.fallbackName, false
	}

	name := strings.TrimSpace(strings.TrimSpace(sender.FirstName) + " " + strings.TrimSpace(sender.LastName))
	if name == "" {
		name = sender.Username
	}

	return sender.ID, name, sender.IsPremium
}

func (s *Service) cacheProfile(ctx context.Context, user *domain.User) {
	if err := s.cache.Set(ctx, user.TelegramID, user, cacheTTL); err != nil {
		s.log.Warn("user cache write failed",
			slog.Int64("telegram_id", user.TelegramID),
			slog.Any("error", err),
		)
	}
}

func (s *Service) logError(operation string, telegramID int64, err error) {
	if s == nil || s.log == nil || err == nil {
		return
	}

	s.log.Error("user service operation failed",
		slog.String("operation", operation),
		slog.Int64("telegram_id", telegramID),
		slog.Any("error", err),
	)
}
