package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"stars_raffle_bot/internal/model"
	"stars_raffle_bot/internal/service"
	"stars_raffle_bot/pkg/logger"
	"go.uber.org/zap"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const referralPrefix = "ref_"

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()
	userID := msg.From.ID

	referrerID := parseReferralPayload(msg.CommandArguments(), userID)

	username := msg.From.UserName
	if username == "" {
		username = msg.From.FirstName
	}

	err := b.ledger.RegisterUser(ctx, userID, username, referrerID)
	if err != nil {
		log.Error("failed to register user",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return
	}

	if _, err := b.sessions.Fire(userID, EventUserStarted); err != nil {
		log.Error("failed to start conversation", zap.Error(err))
	}

	log.Info("user started",
		zap.Int64("user_id", userID),
		zap.Bool("with_referrer", referrerID != nil))

	b.send(msg.Chat.ID, welcomeText, welcomeKeyboard())
}

// parseReferralPayload extracts the inviter id from a "ref_<id>" start
// argument. Malformed payloads and self-referrals read as no referrer.
func parseReferralPayload(args string, userID int64) *int64 {
	if !strings.HasPrefix(args, referralPrefix) {
		return nil
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(args, referralPrefix), 10, 64)
	if err != nil || id == userID {
		return nil
	}

	return &id
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	log := logger.Logger()

	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Error("failed to answer callback", zap.Error(err))
	}

	data := query.Data
	chatID := query.Message.Chat.ID
	userID := query.From.ID

	switch {
	case data == "show_plans":
		b.send(chatID, plansText, plansKeyboard())

	case strings.HasPrefix(data, "select_"):
		b.handlePlanSelected(chatID, userID, strings.TrimPrefix(data, "select_"))

	case strings.HasPrefix(data, "pay_"):
		b.handlePayRequest(chatID, userID, strings.TrimPrefix(data, "pay_"))

	case data == "check_invites":
		b.handleInviteCheck(ctx, chatID, userID)
	}
}

func (b *Bot) handlePlanSelected(chatID, userID int64, planKey string) {
	log := logger.Logger()

	plan, ok := model.PlanByKey(planKey)
	if !ok {
		log.Warn("unknown plan selected", zap.String("plan_key", planKey))
		return
	}

	if _, err := b.sessions.Fire(userID, EventPlanSelected); err != nil {
		log.Info("plan selection outside conversation",
			zap.Int64("user_id", userID),
			zap.Error(err))
		b.send(chatID, notInConversationText, nil)
		return
	}

	b.send(chatID, paymentText(plan), paymentKeyboard(plan))
}

func (b *Bot) handlePayRequest(chatID, userID int64, planKey string) {
	log := logger.Logger()

	plan, ok := model.PlanByKey(planKey)
	if !ok {
		log.Warn("unknown plan in pay request", zap.String("plan_key", planKey))
		return
	}

	if state, ok := b.sessions.Current(userID); !ok || state != StateAwaitingPayment {
		b.send(chatID, notInConversationText, nil)
		return
	}

	// An empty provider token with the XTR currency makes Telegram bill the
	// invoice in Stars.
	invoice := tgbotapi.InvoiceConfig{
		BaseChat:      tgbotapi.BaseChat{ChatID: chatID},
		Title:         plan.Title,
		Description:   fmt.Sprintf("%d raffle tickets, invite goal %d, a wish on the plane", plan.Tickets, plan.InviteGoal),
		Payload:       fmt.Sprintf("%s:%d", plan.Key, userID),
		ProviderToken: "",
		Currency:      "XTR",
		Prices: []tgbotapi.LabeledPrice{
			{Label: plan.Title, Amount: plan.Stars},
		},
	}

	if _, err := b.api.Request(invoice); err != nil {
		log.Error("failed to send invoice",
			zap.Int64("user_id", userID),
			zap.String("plan_key", plan.Key),
			zap.Error(err))
	}
}

// Pre-checkout is always approved: eligibility was settled when the invoice
// was issued.
func (b *Bot) handlePreCheckout(query *tgbotapi.PreCheckoutQuery) {
	_, err := b.api.Request(tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: query.ID,
		OK:                 true,
	})
	if err != nil {
		logger.Logger().Error("failed to answer pre-checkout query", zap.Error(err))
	}
}

func (b *Bot) handleSuccessfulPayment(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()
	payment := msg.SuccessfulPayment
	userID := msg.From.ID

	if b.isDuplicateCharge(payment.TelegramPaymentChargeID) {
		log.Warn("duplicate payment notification dropped",
			zap.Int64("user_id", userID),
			zap.String("charge_id", payment.TelegramPaymentChargeID))
		return
	}

	planKey := strings.SplitN(payment.InvoicePayload, ":", 2)[0]
	plan, ok := model.PlanByKey(planKey)
	if !ok {
		log.Error("payment with unknown plan payload",
			zap.Int64("user_id", userID),
			zap.String("payload", payment.InvoicePayload))
		return
	}

	err := b.ledger.RecordPurchase(ctx, userID, plan.Key, int64(payment.TotalAmount), int64(plan.Tickets))
	if err != nil {
		log.Error("failed to record purchase",
			zap.Int64("user_id", userID),
			zap.String("plan_key", plan.Key),
			zap.Error(err))
		return
	}

	if _, err := b.sessions.Fire(userID, EventPaymentConfirmed); err != nil {
		// The session can be gone when the process restarted between the
		// invoice and the settlement. Rebuild it so the wish prompt works.
		b.resyncAfterPayment(userID)
	}

	log.Info("purchase recorded",
		zap.Int64("user_id", userID),
		zap.String("plan_key", plan.Key),
		zap.Int("stars", payment.TotalAmount))

	refLink := fmt.Sprintf("https://t.me/%s?start=%s%d", b.api.Self.UserName, referralPrefix, userID)
	b.send(msg.Chat.ID, paymentSuccessText(plan, refLink), nil)
}

func (b *Bot) resyncAfterPayment(userID int64) {
	for _, event := range []Event{EventUserStarted, EventPlanSelected, EventPaymentConfirmed} {
		if _, err := b.sessions.Fire(userID, event); err != nil {
			logger.Logger().Error("failed to resync conversation",
				zap.Int64("user_id", userID),
				zap.Error(err))
			return
		}
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()
	userID := msg.From.ID

	state, ok := b.sessions.Current(userID)
	if !ok || state != StateAwaitingWish {
		b.send(msg.Chat.ID, notInConversationText, nil)
		return
	}

	err := b.ledger.RecordWish(ctx, userID, msg.Text)
	if err != nil {
		if errors.Is(err, service.ErrWishTooLong) {
			b.send(msg.Chat.ID, wishTooLongText, nil)
			return
		}
		log.Error("failed to record wish",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return
	}

	if err := b.ledger.MarkCompleted(ctx, userID); err != nil {
		log.Error("failed to mark completed",
			zap.Int64("user_id", userID),
			zap.Error(err))
	}

	if _, err := b.sessions.Fire(userID, EventWishSubmitted); err != nil {
		log.Error("failed to finish conversation", zap.Error(err))
	}

	b.send(msg.Chat.ID, wishSavedText, progressKeyboard())
}

func (b *Bot) handleInviteCheck(ctx context.Context, chatID, userID int64) {
	log := logger.Logger()

	referrals, err := b.ledger.GetReferralCount(ctx, userID)
	if err != nil {
		log.Error("failed to get referral count", zap.Error(err))
		return
	}

	goal := 0
	user, err := b.ledger.GetUser(ctx, userID)
	if err == nil && user.PlanKey != nil {
		if plan, ok := model.PlanByKey(*user.PlanKey); ok {
			goal = plan.InviteGoal
		}
	}

	b.send(chatID, inviteProgressText(referrals, goal), nil)
}

func (b *Bot) handleMyTickets(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()
	userID := msg.From.ID

	tickets, err := b.ledger.GetTicketCount(ctx, userID)
	if err != nil {
		log.Error("failed to get ticket count", zap.Error(err))
		return
	}

	referrals, err := b.ledger.GetReferralCount(ctx, userID)
	if err != nil {
		log.Error("failed to get referral count", zap.Error(err))
		return
	}

	b.send(msg.Chat.ID, ticketsText(tickets, referrals), nil)
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		return
	}

	stats, err := b.ledger.GetStats(ctx)
	if err != nil {
		logger.Logger().Error("failed to get stats", zap.Error(err))
		return
	}

	b.send(msg.Chat.ID, statsText(stats), nil)
}

func (b *Bot) handleDraw(ctx context.Context, msg *tgbotapi.Message) {
	log := logger.Logger()

	if !b.isAdmin(msg.From.ID) {
		return
	}

	result, err := b.raffle.DrawWinner(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNoParticipants) {
			b.send(msg.Chat.ID, "🎟 No eligible participants yet.", nil)
			return
		}
		log.Error("failed to draw winner", zap.Error(err))
		return
	}

	log.Info("winner drawn",
		zap.Int64("winner_id", result.WinnerID),
		zap.Int64("total_tickets", result.TotalTickets))

	b.send(msg.Chat.ID, drawResultText(result), nil)
}
