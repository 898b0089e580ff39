package bot

import (
	"context"
	"fmt"
	"sync"

	"stars_raffle_bot/internal/service"
	"stars_raffle_bot/pkg/logger"
	"go.uber.org/zap"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the conversational front end. It turns Telegram updates into ledger
// and raffle service calls and keeps a per-user conversation state machine.
type Bot struct {
	api      *tgbotapi.BotAPI
	ledger   service.LedgerServiceI
	raffle   service.RaffleServiceI
	sessions *Conversations
	admins   map[int64]struct{}

	chargeMu    sync.Mutex
	seenCharges map[string]struct{}
}

func New(token string, ledger service.LedgerServiceI, raffle service.RaffleServiceI, adminIDs []int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot api: %w", err)
	}

	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return &Bot{
		api:         api,
		ledger:      ledger,
		raffle:      raffle,
		sessions:    NewConversations(),
		admins:      admins,
		seenCharges: make(map[string]struct{}),
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	log := logger.Logger()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	log.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.PreCheckoutQuery != nil:
		b.handlePreCheckout(update.PreCheckoutQuery)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.SuccessfulPayment != nil:
		b.handleSuccessfulPayment(ctx, update.Message)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "mytickets":
		b.handleMyTickets(ctx, msg)
	case "stats":
		b.handleStats(ctx, msg)
	case "draw":
		b.handleDraw(ctx, msg)
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	_, ok := b.admins[userID]
	return ok
}

// isDuplicateCharge closes the duplicate-notification gap the ledger leaves
// open: the same telegram charge id is recorded at most once per process.
func (b *Bot) isDuplicateCharge(chargeID string) bool {
	if chargeID == "" {
		return false
	}

	b.chargeMu.Lock()
	defer b.chargeMu.Unlock()

	if _, seen := b.seenCharges[chargeID]; seen {
		return true
	}
	b.seenCharges[chargeID] = struct{}{}
	return false
}

func (b *Bot) send(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if _, err := b.api.Send(msg); err != nil {
		logger.Logger().Error("failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
