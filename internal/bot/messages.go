package bot

import (
	"fmt"
	"strings"

	"stars_raffle_bot/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const welcomeText = `✈️ *Make history for the price of a cup of coffee!*

📝 Your wish will join the largest message ever assembled,
and 🎟 raffle winners take tickets to the *World Cup 2026!*

Pick your participation plan 👇`

const plansText = `💫 *Choose your participation plan*

🥇 *300 ⭐* — 5 raffle tickets, invite 1 friend
🥈 *200 ⭐* — 3 raffle tickets, invite 2 friends
🥉 *100 ⭐* — 1 raffle ticket, invite 5 friends

📌 Every invited friend adds one more ticket!`

const wishPromptText = `📝 Now write your *wish* — up to 500 characters.
✍️ Send it as a plain message below.`

const wishSavedText = `🎉 Your wish is saved! Every friend who joins through your link adds a raffle ticket.
Check your progress any time with /mytickets.`

const wishTooLongText = `✍️ That wish is a bit long — please keep it under 500 characters and send it again.`

const notInConversationText = `Send /start to join the raffle.`

func welcomeKeyboard() *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚀 Participate!", "show_plans"),
		),
	)
	return &markup
}

func plansKeyboard() *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(model.PlanOrder))
	for _, key := range model.PlanOrder {
		plan := model.Plans[key]
		label := fmt.Sprintf("%s — %d 🎟", plan.Title, plan.Tickets)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "select_"+plan.Key),
		))
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func paymentKeyboard(plan model.Plan) *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("💫 Pay %d ⭐", plan.Stars), "pay_"+plan.Key),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back", "show_plans"),
		),
	)
	return &markup
}

func progressKeyboard() *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Check my invites", "check_invites"),
		),
	)
	return &markup
}

func paymentText(plan model.Plan) string {
	return fmt.Sprintf(`💳 *Payment — %s*

💰 Price: *%d ⭐ Stars*
🎟 Tickets granted: *%d*
👥 Invite goal: *%d*

✅ After payment you will:
1️⃣ Receive your referral link
2️⃣ Write your wish ✍️
3️⃣ Enter the raffle 🎟`,
		plan.Title, plan.Stars, plan.Tickets, plan.InviteGoal)
}

func paymentSuccessText(plan model.Plan, refLink string) string {
	return fmt.Sprintf(`🎉 *Payment received!*

✅ Your plan: *%s*
🎟 Tickets added: *%d*

🔗 *Your referral link:*
%s

👥 Invite *%d* friends — each one adds a ticket.

%s`, plan.Title, plan.Tickets, refLink, plan.InviteGoal, wishPromptText)
}

func ticketsText(tickets, referrals int64) string {
	return fmt.Sprintf(`🎟 Tickets: *%d*
👥 Confirmed invites: *%d*

More invites, more tickets, better odds!`, tickets, referrals)
}

func inviteProgressText(invited int64, goal int) string {
	if goal > 0 && invited >= int64(goal) {
		return fmt.Sprintf("🏆 Goal reached! You invited *%d* of *%d* friends.", invited, goal)
	}
	return fmt.Sprintf("👥 You invited *%d* of *%d* friends so far. Keep sharing your link!", invited, goal)
}

func statsText(stats *model.Stats) string {
	var sb strings.Builder
	sb.WriteString("📊 *Raffle statistics*\n\n")
	sb.WriteString(fmt.Sprintf("👤 Users: *%d*\n", stats.TotalUsers))
	sb.WriteString(fmt.Sprintf("💳 Paid: *%d*\n", stats.PaidUsers))
	sb.WriteString(fmt.Sprintf("📝 Wishes: *%d*\n", stats.TotalWishes))
	sb.WriteString(fmt.Sprintf("✅ Completed: *%d*\n", stats.TotalCompleted))
	sb.WriteString(fmt.Sprintf("⭐ Stars collected: *%d*\n", stats.TotalStars))
	sb.WriteString(fmt.Sprintf("🎟 Tickets issued: *%d*", stats.TotalTickets))
	return sb.String()
}

func drawResultText(result *model.DrawResult) string {
	name := "@" + result.Username
	if result.Username == "" {
		name = fmt.Sprintf("user %d", result.WinnerID)
	}
	return fmt.Sprintf(`🎉 *Winner drawn!*

🏆 %s
🎟 Held %d of %d tickets (%d participants)`,
		name, result.Tickets, result.TotalTickets, result.Participants)
}
