package user

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/domain"
	"github.com/AzamovUSA/debt-control/internal/usercache"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	args := m.Called(ctx, telegramID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(repo *mockUserRepo) *Service {
	return NewService(repo, usercache.NewCache(nil), testLogger()).
		WithFallbackIdentity(123456789, "Test User")
}

func TestResolveOrCreateExistingUser(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("FindByTelegramID", mock.Anything, int64(555)).Return(&domain.User{
		ID:         "u-1",
		TelegramID: 555,
		Name:       "Ana",
	}, nil)

	svc := newService(repo)
	got, err := svc.ResolveOrCreate(context.Background(), &telebot.User{ID: 555, FirstName: "Ana"})

	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestResolveOrCreateFirstContact(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("FindByTelegramID", mock.Anything, int64(556)).Return(nil, sql.ErrNoRows)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.TelegramID == 556 && u.Name == "Ana Petrova" && u.IsPremium
	})).Return(nil)

	svc := newService(repo)
	got, err := svc.ResolveOrCreate(context.Background(), &telebot.User{
		ID:        556,
		FirstName: "Ana",
		LastName:  "Petrova",
		IsPremium: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana Petrova", got.Name)
	assert.True(t, got.IsPremium)
	repo.AssertExpectations(t)
}

func TestResolveOrCreateFallsBackToUsername(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("FindByTelegramID", mock.Anything, int64(557)).Return(nil, sql.ErrNoRows)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "anap"
	})).Return(nil)

	svc := newService(repo)
	_, err := svc.ResolveOrCreate(context.Background(), &telebot.User{ID: 557, Username: "anap"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestResolveOrCreateWithoutSenderUsesFallback(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("FindByTelegramID", mock.Anything, int64(123456789)).Return(&domain.User{
		ID:         "u-fallback",
		TelegramID: 123456789,
		Name:       "Test User",
	}, nil)

	svc := newService(repo)
	got, err := svc.ResolveOrCreate(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "Test User", got.Name)
}

func TestResolveOrCreatePropagatesStoreErrors(t *testing.T) {
	repo := new(mockUserRepo)
	repo.On("FindByTelegramID", mock.Anything, int64(558)).Return(nil, errors.New("connection refused"))

	svc := newService(repo)
	_, err := svc.ResolveOrCreate(context.Background(), &telebot.User{ID: 558})

	require.Error(t, err)
}
