package bot

import (
	"sync"

	"github.com/pkg/errors"
)

// State is the position of one user's conversation. The flow is linear:
// pick a plan, pay, submit a wish.
type State int

const (
	StateAwaitingPlanChoice State = iota
	StateAwaitingPayment
	StateAwaitingWish
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingPlanChoice:
		return "awaiting_plan_choice"
	case StateAwaitingPayment:
		return "awaiting_payment"
	case StateAwaitingWish:
		return "awaiting_wish"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

type Event int

const (
	EventUserStarted Event = iota
	EventPlanSelected
	EventPaymentConfirmed
	EventWishSubmitted
)

func (e Event) String() string {
	switch e {
	case EventUserStarted:
		return "user_started"
	case EventPlanSelected:
		return "plan_selected"
	case EventPaymentConfirmed:
		return "payment_confirmed"
	case EventWishSubmitted:
		return "wish_submitted"
	default:
		return "unknown"
	}
}

var ErrInvalidTransition = errors.New("invalid conversation transition")

// transitions holds every arc except EventUserStarted, which restarts the
// conversation from any state. PlanSelected loops on AwaitingPayment so the
// user can go back and pick a different tier before paying, and
// PaymentConfirmed is accepted from Done because settled invoices may arrive
// after an earlier purchase already finished the flow.
var transitions = map[State]map[Event]State{
	StateAwaitingPlanChoice: {
		EventPlanSelected: StateAwaitingPayment,
	},
	StateAwaitingPayment: {
		EventPlanSelected:     StateAwaitingPayment,
		EventPaymentConfirmed: StateAwaitingWish,
	},
	StateAwaitingWish: {
		EventWishSubmitted: StateDone,
	},
	StateDone: {
		EventPaymentConfirmed: StateAwaitingWish,
	},
}

// Conversations tracks the state machine per user. In-memory only: a restart
// drops sessions, and users recover by sending /start again.
type Conversations struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewConversations() *Conversations {
	return &Conversations{
		states: make(map[int64]State),
	}
}

func (c *Conversations) Current(userID int64) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[userID]
	return state, ok
}

// Fire applies the event and returns the resulting state. Events that have
// no arc from the current state return ErrInvalidTransition and leave the
// state unchanged.
func (c *Conversations) Fire(userID int64, event Event) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if event == EventUserStarted {
		c.states[userID] = StateAwaitingPlanChoice
		return StateAwaitingPlanChoice, nil
	}

	current, ok := c.states[userID]
	if !ok {
		return 0, errors.Wrapf(ErrInvalidTransition, "no session for user %d", userID)
	}

	next, ok := transitions[current][event]
	if !ok {
		return current, errors.Wrapf(ErrInvalidTransition, "%s in state %s", event, current)
	}

	c.states[userID] = next
	return next, nil
}
