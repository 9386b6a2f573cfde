package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/bot/keyboard"
	"github.com/AzamovUSA/debt-control/internal/debt"
	"github.com/AzamovUSA/debt-control/internal/domain"
	"github.com/AzamovUSA/debt-control/internal/session"
	"github.com/AzamovUSA/debt-control/internal/state"
)

// stubContext records outgoing messages; everything else inherits the
// embedded interface and is never called in these tests.
type stubContext struct {
	telebot.Context

	sender *telebot.User
	store  map[string]interface{}
	sent   []interface{}
}

func (c *stubContext) Sender() *telebot.User { return c.sender }

func (c *stubContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what)
	return nil
}

func (c *stubContext) Set(key string, value interface{}) {
	if c.store == nil {
		c.store = make(map[string]interface{})
	}
	c.store[key] = value
}

func (c *stubContext) Get(key string) interface{} { return c.store[key] }

type failingDebtRepo struct{}

func (failingDebtRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Debt, error) {
	return nil, errors.New("store down")
}

func (failingDebtRepo) FindByID(ctx context.Context, id string) (*domain.Debt, error) {
	return nil, errors.New("store down")
}

func (failingDebtRepo) Insert(ctx context.Context, debt *domain.Debt) error {
	return errors.New("store down")
}

func (failingDebtRepo) UpdateStatus(ctx context.Context, id string, status domain.Status, paidAt *time.Time) error {
	return errors.New("store down")
}

func newTestDeps() *Deps {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Deps{
		Debts:    debt.NewService(failingDebtRepo{}, log),
		FSM:      state.NewStateMachine(state.NewMemoryStorage(), log, nil),
		Keyboard: keyboard.NewBuilder(log),
		Log:      log,
	}
}

func TestRenderListKeepsViewOnStoreFailure(t *testing.T) {
	d := newTestDeps()
	c := &stubContext{sender: &telebot.User{ID: 7}}
	session.Inject(c, &session.Session{User: &domain.User{ID: "owner-1"}, Lang: "en"})

	err := renderList(c, d, 1, false)

	require.NoError(t, err)
	assert.Empty(t, c.sent, "a list load failure must not replace the view with an error message")
}

func TestRenderListSkipsUnresolvedOwner(t *testing.T) {
	d := newTestDeps()
	c := &stubContext{sender: &telebot.User{ID: 7}}
	session.Inject(c, &session.Session{Lang: "en"})

	err := renderList(c, d, 1, false)

	require.NoError(t, err)
	assert.Empty(t, c.sent)
}

func TestSaveViewPrefsPreservesAddDraft(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()

	require.NoError(t, d.FSM.SetState(ctx, 7, state.StateAddName, map[string]interface{}{
		state.DraftDebtorName: "Ana",
	}))

	saveViewPrefs(ctx, d, 7, viewPrefs{criterion: debt.CriterionPaid})

	current, err := d.FSM.GetState(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, state.StateAddName, current.CurrentState)
	assert.Equal(t, "Ana", current.Context[state.DraftDebtorName])
	_, overwritten := current.Context[viewFilterKey]
	assert.False(t, overwritten)
}

func TestSaveViewPrefsWhileIdle(t *testing.T) {
	d := newTestDeps()
	ctx := context.Background()

	saveViewPrefs(ctx, d, 7, viewPrefs{criterion: debt.CriterionPaid, query: "ana"})

	got := loadViewPrefs(ctx, d, 7)
	assert.Equal(t, debt.CriterionPaid, got.criterion)
	assert.Equal(t, "ana", got.query)
}
