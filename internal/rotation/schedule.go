package rotation

import (
	"fmt"
	"time"
	_ "time/tzdata" // America/New_York must resolve on hosts without zoneinfo
)

// Eastern is the market time zone every event is expressed in.
const Eastern = "America/New_York"

// Action is what an event does when it fires.
type Action int

const (
	ActionLiquidate Action = iota
	ActionBuy
)

func (a Action) String() string {
	switch a {
	case ActionLiquidate:
		return "liquidate"
	case ActionBuy:
		return "buy"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Event is a daily action at a wall-clock offset from Eastern midnight.
type Event struct {
	At     time.Duration
	Action Action
	Basket string // buy events only
}

// Name is the HH:MM:SS label of the event.
func (e Event) Name() string {
	total := int(e.At / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

func clock(h, m, s int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// DefaultEvents is the daily rotation: flatten at the open, buy the
// intraday basket, flatten before the close, buy the after-hours basket.
func DefaultEvents() []Event {
	return []Event{
		{At: clock(9, 30, 1), Action: ActionLiquidate},
		{At: clock(9, 31, 30), Action: ActionBuy, Basket: BasketIntraday},
		{At: clock(15, 55, 0), Action: ActionLiquidate},
		{At: clock(15, 56, 0), Action: ActionBuy, Basket: BasketAfterHours},
	}
}

// Schedule tracks which events already fired on the current Eastern date.
type Schedule struct {
	events []Event
	window time.Duration
	loc    *time.Location

	date  string
	fired []bool
}

// NewSchedule builds a schedule in the Eastern time zone. An event is due
// while the clock is in [At, At+window).
func NewSchedule(events []Event, window time.Duration) (*Schedule, error) {
	loc, err := time.LoadLocation(Eastern)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", Eastern, err)
	}
	if window <= 0 {
		return nil, fmt.Errorf("schedule window must be positive, got %s", window)
	}
	return &Schedule{
		events: events,
		window: window,
		loc:    loc,
		fired:  make([]bool, len(events)),
	}, nil
}

// Due returns the events that should run at now and marks them fired.
// Flags reset whenever the Eastern date changes.
func (s *Schedule) Due(now time.Time) []Event {
	local := now.In(s.loc)
	if date := local.Format(time.DateOnly); date != s.date {
		s.date = date
		for i := range s.fired {
			s.fired[i] = false
		}
	}

	// Wall clock, not elapsed time, so DST transition days line up.
	h, m, sec := local.Clock()
	sinceMidnight := clock(h, m, sec) + time.Duration(local.Nanosecond())

	var due []Event
	for i, e := range s.events {
		if s.fired[i] {
			continue
		}
		if sinceMidnight >= e.At && sinceMidnight < e.At+s.window {
			s.fired[i] = true
			due = append(due, e)
		}
	}
	return due
}

// Location is the schedule's time zone.
func (s *Schedule) Location() *time.Location {
	return s.loc
}
