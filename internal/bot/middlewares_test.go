package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/domain"
	apperrors "github.com/AzamovUSA/debt-control/internal/errors"
	"github.com/AzamovUSA/debt-control/internal/session"
	"github.com/AzamovUSA/debt-control/internal/user"
)

type recordingContext struct {
	telebot.Context

	sender *telebot.User
	store  map[string]interface{}
	sent   []interface{}
}

func (c *recordingContext) Sender() *telebot.User { return c.sender }

func (c *recordingContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *recordingContext) Set(key string, value interface{}) {
	if c.store == nil {
		c.store = make(map[string]interface{})
	}
	c.store[key] = value
}

func (c *recordingContext) Get(key string) interface{} { return c.store[key] }

type brokenUserRepo struct{}

func (brokenUserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return nil, fmt.Errorf("connection refused")
}

func (brokenUserRepo) Create(ctx context.Context, u *domain.User) error {
	return fmt.Errorf("connection refused")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorHandlingMiddlewareStaysSilent(t *testing.T) {
	errHandler := apperrors.NewHandler(discardLogger(), false)
	mw := ErrorHandlingMiddleware(errHandler)

	c := &recordingContext{sender: &telebot.User{ID: 7}}

	err := mw(func(telebot.Context) error {
		return apperrors.NewStoreError(errors.New("list debts: connection refused"))
	})(c)

	require.NoError(t, err)
	assert.Empty(t, c.sent, "store failures must not produce chat messages")
}

func TestSessionMiddlewareProceedsWithoutIdentity(t *testing.T) {
	svc := user.NewService(brokenUserRepo{}, nil, discardLogger())
	mw := SessionMiddleware(svc, discardLogger())

	c := &recordingContext{sender: &telebot.User{ID: 7, LanguageCode: "ru"}}

	nextCalled := false
	err := mw(func(tc telebot.Context) error {
		nextCalled = true
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, nextCalled)
	assert.Empty(t, c.sent)

	s := session.FromContext(c)
	require.NotNil(t, s)
	assert.Nil(t, s.User)
	assert.Equal(t, "ru", s.Lang)
	assert.Empty(t, session.OwnerID(c))
}
