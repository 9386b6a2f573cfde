package bot

import (
	"database/sql"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/AzamovUSA/debt-control/internal/bot/handlers"
	"github.com/AzamovUSA/debt-control/internal/bot/keyboard"
	"github.com/AzamovUSA/debt-control/internal/debt"
	errors "github.com/AzamovUSA/debt-control/internal/errors"
	"github.com/AzamovUSA/debt-control/internal/i18n"
	"github.com/AzamovUSA/debt-control/internal/idempotency"
	"github.com/AzamovUSA/debt-control/internal/middleware"
	"github.com/AzamovUSA/debt-control/internal/state"
	"github.com/AzamovUSA/debt-control/internal/user"
	"github.com/AzamovUSA/debt-control/pkg/config"
)

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot            *telebot.Bot
	db                 *sql.DB
	log                *slog.Logger
	cfg                config.Config
	fsm                state.StateMachine
	rateLimitMw        *middleware.RateLimitMiddleware
	router             *Router
	dispatcher         *Dispatcher
	keyboard           *keyboard.Builder
	errHandler         *errors.Handler
	idempotencyManager idempotency.Manager
}

// New builds a telegram bot instance configured according to the application settings.
func New(
	cfg config.Config,
	log *slog.Logger,
	db *sql.DB,
	fsm state.StateMachine,
	idempotencyManager idempotency.Manager,
	rateLimitMw *middleware.RateLimitMiddleware,
	userService *user.Service,
	debtService *debt.Service,
	translations *i18n.Manager,
) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Bot.Token,
	}

	if cfg.Bot.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Listen: ":" + cfg.Server.Port,
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	kb := keyboard.NewBuilder(log)
	dispatcher := NewDispatcher(fsm, log)
	router := NewRouter(dispatcher, log)
	errHandler := errors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:            tb,
		db:                 db,
		log:                log,
		cfg:                cfg,
		fsm:                fsm,
		rateLimitMw:        rateLimitMw,
		router:             router,
		dispatcher:         dispatcher,
		keyboard:           kb,
		errHandler:         errHandler,
		idempotencyManager: idempotencyManager,
	}

	deps := &handlers.Deps{
		Debts:           debtService,
		FSM:             fsm,
		Keyboard:        kb,
		I18n:            translations,
		PageSize:        cfg.App.PageSize,
		DefaultCurrency: cfg.App.DefaultCurrency,
		Log:             log,
	}

	b.setupRouter(deps, userService)

	if b.rateLimitMw != nil {
		b.telebot.Use(b.rateLimitMw.Handle)
	}

	b.registerTelebotHandlers()

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	if b.log != nil {
		b.log.Info("stopping telegram bot...")
	}

	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter(deps *handlers.Deps, userService *user.Service) {
	if b.router == nil {
		return
	}

	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(middleware.Idempotency(b.idempotencyManager, b.log))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(SessionMiddleware(userService, b.log))
	b.router.Use(middleware.Metrics)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(deps))
	b.router.RegisterCommand(CommandAdd, handlers.NewAddHandler(deps))
	b.router.RegisterCommand(CommandList, handlers.NewListHandler(deps))
	b.router.RegisterCommand(CommandCancel, handlers.NewCancelHandler(deps))

	b.router.RegisterCallback(CallbackFilter, handlers.HandleFilter(deps))
	b.router.RegisterCallback(CallbackPage, handlers.HandlePage(deps))
	b.router.RegisterCallback(CallbackPaid, handlers.HandleMarkPaid(deps))
	b.router.RegisterCallback(CallbackCurrency, handlers.HandleCurrencyPick(deps))
	b.router.RegisterCallback(CallbackSkip, handlers.HandleSkip(deps))
	b.router.RegisterCallback(CallbackAddConfirm, handlers.HandleAddConfirm(deps))
	b.router.RegisterCallback(CallbackAddCancel, handlers.HandleAddCancel(deps))

	b.dispatcher.RegisterStateHandler(state.StateAddName, handlers.NewNameStepHandler(deps))
	b.dispatcher.RegisterStateHandler(state.StateAddPhone, handlers.NewPhoneStepHandler(deps))
	b.dispatcher.RegisterStateHandler(state.StateAddAmount, handlers.NewAmountStepHandler(deps))
	b.dispatcher.RegisterStateHandler(state.StateAddCurrency, handlers.NewCurrencyStepHandler(deps))
	b.dispatcher.RegisterStateHandler(state.StateAddDueDate, handlers.NewDueDateStepHandler(deps))
	b.dispatcher.RegisterStateHandler(state.StateAddNote, handlers.NewNoteStepHandler(deps))

	// Free text while no flow is active searches the debt book. Reply
	// keyboard presses for /add and /list land here too, so the default
	// handler resolves them first.
	b.router.SetDefault(menuOrSearch(deps))
}

// menuOrSearch maps reply keyboard button presses onto their commands and
// treats any other text as a debtor search.
func menuOrSearch(deps *handlers.Deps) handlers.Handler {
	addHandler := handlers.NewAddHandler(deps)
	listHandler := handlers.NewListHandler(deps)
	searchHandler := handlers.NewSearchHandler(deps)

	return func(c telebot.Context) error {
		t := deps.Translator(c)
		switch c.Text() {
		case t.T("menu.add"):
			return addHandler(c)
		case t.T("menu.list"):
			return listHandler(c)
		default:
			return searchHandler(c)
		}
	}
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
