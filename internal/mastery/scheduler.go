package mastery

import "time"

// State is a learner's progress on one vocabulary item.
type State string

const (
	StateNew       State = "new"
	StateLearning  State = "learning"
	StatePracticed State = "practiced"
	StateMastered  State = "mastered"
)

// Valid reports whether s is one of the four known states.
func (s State) Valid() bool {
	switch s {
	case StateNew, StateLearning, StatePracticed, StateMastered:
		return true
	}
	return false
}

// Band buckets a session success rate. Lower bounds are inclusive.
type Band string

const (
	BandExcellent Band = "excellent" // >= 0.90
	BandGood      Band = "good"      // >= 0.70
	BandFair      Band = "fair"      // >= 0.50
	BandPoor      Band = "poor"
)

func BandFor(successRate float64) Band {
	switch {
	case successRate >= 0.90:
		return BandExcellent
	case successRate >= 0.70:
		return BandGood
	case successRate >= 0.50:
		return BandFair
	default:
		return BandPoor
	}
}

// Promotion gates: an EXCELLENT session only promotes once the item has been
// reviewed enough times before this session.
const (
	promoteToPracticedMinReviews = 2
	promoteToMasteredMinReviews  = 4
)

// Decision is the scheduler's verdict for one completed session.
type Decision struct {
	Next     State
	ReviewIn time.Duration
}

// Schedule computes the next mastery state and the delay until the next
// review. reviewCount is the record's review count BEFORE this session's
// increment; it gates the excellent-band promotions.
//
// This is the only place in the codebase that computes review intervals.
func Schedule(current State, successRate float64, reviewCount int) Decision {
	if !current.Valid() {
		current = StateNew
	}
	band := BandFor(successRate)

	// A poor session sends the item back to the start regardless of state.
	if band == BandPoor {
		return Decision{Next: StateNew, ReviewIn: 30 * time.Minute}
	}

	switch current {
	case StateNew:
		switch band {
		case BandExcellent:
			return Decision{Next: StateLearning, ReviewIn: 4 * time.Hour}
		case BandGood:
			return Decision{Next: StateNew, ReviewIn: 2 * time.Hour}
		default: // fair
			return Decision{Next: StateNew, ReviewIn: 1 * time.Hour}
		}

	case StateLearning:
		switch band {
		case BandExcellent:
			next := StateLearning
			if reviewCount >= promoteToPracticedMinReviews {
				next = StatePracticed
			}
			return Decision{Next: next, ReviewIn: 24 * time.Hour}
		case BandGood:
			return Decision{Next: StateLearning, ReviewIn: 12 * time.Hour}
		default:
			return Decision{Next: StateLearning, ReviewIn: 4 * time.Hour}
		}

	case StatePracticed:
		switch band {
		case BandExcellent:
			next := StatePracticed
			if reviewCount >= promoteToMasteredMinReviews {
				next = StateMastered
			}
			return Decision{Next: next, ReviewIn: 72 * time.Hour}
		case BandGood:
			return Decision{Next: StatePracticed, ReviewIn: 48 * time.Hour}
		default:
			return Decision{Next: StateLearning, ReviewIn: 12 * time.Hour}
		}

	default: // mastered
		switch band {
		case BandExcellent:
			return Decision{Next: StateMastered, ReviewIn: 168 * time.Hour}
		case BandGood:
			// Demotion on a merely-good session is deliberate product
			// behavior for now; see DESIGN.md before changing it.
			return Decision{Next: StatePracticed, ReviewIn: 72 * time.Hour}
		default:
			return Decision{Next: StatePracticed, ReviewIn: 24 * time.Hour}
		}
	}
}
