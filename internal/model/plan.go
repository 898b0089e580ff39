package model

// Plan is a purchasable participation tier. Stars is the invoice price in
// Telegram Stars (XTR), Tickets is the raffle weight granted on purchase and
// InviteGoal is how many friends the tier asks the buyer to bring.
type Plan struct {
	Key        string
	Title      string
	Stars      int
	Tickets    int
	InviteGoal int
}

var Plans = map[string]Plan{
	"plan_300": {
		Key:        "plan_300",
		Title:      "VIP — 300 stars",
		Stars:      300,
		Tickets:    5,
		InviteGoal: 1,
	},
	"plan_200": {
		Key:        "plan_200",
		Title:      "PRO — 200 stars",
		Stars:      200,
		Tickets:    3,
		InviteGoal: 2,
	},
	"plan_100": {
		Key:        "plan_100",
		Title:      "BASIC — 100 stars",
		Stars:      100,
		Tickets:    1,
		InviteGoal: 5,
	},
}

// PlanOrder fixes the display order of the catalog, most expensive first.
var PlanOrder = []string{"plan_300", "plan_200", "plan_100"}

func PlanByKey(key string) (Plan, bool) {
	p, ok := Plans[key]
	return p, ok
}
