package bot

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"karma-bot/internal/model"
	"karma-bot/internal/repository"
	"karma-bot/internal/service"
)

// Bot aggregates the Telegram API with the karma services.
type Bot struct {
	api         *tgbotapi.BotAPI
	userRepo    *repository.UserRepository
	voteSvc     *service.VoteService
	currencySvc *service.CurrencyService
	statusSvc   *service.StatusService
	log         *zap.Logger
}

func New(token string, debug bool, userRepo *repository.UserRepository, voteSvc *service.VoteService, currencySvc *service.CurrencyService, statusSvc *service.StatusService, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	api.Debug = debug

	log = log.With(zap.String("component", "bot"))
	log.Info("bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{
		api:         api,
		userRepo:    userRepo,
		voteSvc:     voteSvc,
		currencySvc: currencySvc,
		statusSvc:   statusSvc,
		log:         log,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.Error("handle message", zap.Error(err))
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	b.log.Debug("message received",
		zap.String("from", msg.From.UserName),
		zap.Int64("from_id", msg.From.ID),
		zap.Int64("chat_id", msg.Chat.ID),
		zap.String("text", msg.Text),
	)

	// Keep the user directory current: every observed sender is upserted so
	// later votes can resolve them by id or handle.
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		b.log.Error("upsert user", zap.Error(err), zap.Int64("from_id", msg.From.ID))
	}

	text := msg.Text
	if alias, handle, ok := matchVote(text); ok {
		return b.handleRateUpdate(ctx, msg, alias, handle)
	}

	switch {
	case helpPattern.MatchString(text):
		return b.send(msg.Chat.ID, helpText)
	case chatsPattern.MatchString(text):
		return b.send(msg.Chat.ID, chatsText)
	case changelogPattern.MatchString(text):
		return b.send(msg.Chat.ID, changelogText)
	case currencyPattern.MatchString(text):
		return b.handleCurrency(ctx, msg.Chat.ID)
	case upworkPattern.MatchString(text):
		return b.handleUpworkStatus(ctx, msg.Chat.ID)
	}

	return nil
}

// handleCurrency replies with the cached CBR quotes. Fetch failures are
// logged but produce no chat reply, currency is a side feature.
func (b *Bot) handleCurrency(ctx context.Context, chatID int64) error {
	rates, err := b.currencySvc.Rates(ctx)
	if err != nil {
		b.log.Error("currency rates", zap.Error(err))
		return nil
	}

	text, err := renderReply("currencyList", rates)
	if err != nil {
		return err
	}
	return b.send(chatID, text)
}

func (b *Bot) handleUpworkStatus(ctx context.Context, chatID int64) error {
	alive, err := b.statusSvc.IsAlive(ctx)
	if err != nil {
		b.log.Error("upwork status", zap.Error(err))
		return nil
	}

	text, err := renderReply("upworkStatus", struct {
		Alive bool
		URL   string
	}{Alive: alive, URL: b.statusSvc.PageURL()})
	if err != nil {
		return err
	}
	return b.send(chatID, text)
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

// send delivers an HTML reply with link previews disabled.
func (b *Bot) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// displayName prefers the handle, then the first name in bold, then a
// fallback label. The result is safe for HTML parse mode.
func displayName(user *model.User) string {
	if user.Username != "" {
		return "@" + user.Username
	}
	if user.FirstName != "" {
		return "<b>" + html.EscapeString(user.FirstName) + "</b>"
	}
	return "<b>NoName</b>"
}
