package mastery

import (
	"testing"
	"time"
)

func TestBandFor(t *testing.T) {
	cases := []struct {
		rate float64
		want Band
	}{
		{1.0, BandExcellent},
		{0.90, BandExcellent},
		{0.899, BandGood},
		{0.70, BandGood},
		{0.699, BandFair},
		{0.50, BandFair},
		{0.499, BandPoor},
		{0.0, BandPoor},
	}
	for _, tc := range cases {
		if got := BandFor(tc.rate); got != tc.want {
			t.Fatalf("BandFor(%v)=%v, want %v", tc.rate, got, tc.want)
		}
	}
}

func TestSchedule_Table(t *testing.T) {
	cases := []struct {
		name        string
		current     State
		rate        float64
		reviewCount int
		wantState   State
		wantIn      time.Duration
	}{
		{"new_excellent", StateNew, 0.95, 0, StateLearning, 4 * time.Hour},
		{"new_good", StateNew, 0.75, 0, StateNew, 2 * time.Hour},
		{"new_fair", StateNew, 0.55, 0, StateNew, 1 * time.Hour},
		{"new_poor", StateNew, 0.2, 0, StateNew, 30 * time.Minute},

		{"learning_excellent_gate_met", StateLearning, 0.95, 2, StatePracticed, 24 * time.Hour},
		{"learning_excellent_gate_not_met", StateLearning, 0.95, 1, StateLearning, 24 * time.Hour},
		{"learning_good", StateLearning, 0.8, 5, StateLearning, 12 * time.Hour},
		{"learning_fair", StateLearning, 0.5, 5, StateLearning, 4 * time.Hour},
		{"learning_poor", StateLearning, 0.0, 5, StateNew, 30 * time.Minute},

		{"practiced_excellent_gate_met", StatePracticed, 0.9, 4, StateMastered, 72 * time.Hour},
		{"practiced_excellent_gate_not_met", StatePracticed, 0.95, 1, StatePracticed, 72 * time.Hour},
		{"practiced_good", StatePracticed, 0.7, 10, StatePracticed, 48 * time.Hour},
		{"practiced_fair", StatePracticed, 0.6, 10, StateLearning, 12 * time.Hour},
		{"practiced_poor", StatePracticed, 0.3, 10, StateNew, 30 * time.Minute},

		{"mastered_excellent", StateMastered, 1.0, 20, StateMastered, 168 * time.Hour},
		{"mastered_good_demotes", StateMastered, 0.8, 20, StatePracticed, 72 * time.Hour},
		{"mastered_fair_demotes", StateMastered, 0.5, 20, StatePracticed, 24 * time.Hour},
		{"mastered_poor", StateMastered, 0.3, 20, StateNew, 30 * time.Minute},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Schedule(tc.current, tc.rate, tc.reviewCount)
			if got.Next != tc.wantState {
				t.Fatalf("Schedule(%s, %v, %d).Next=%s, want %s", tc.current, tc.rate, tc.reviewCount, got.Next, tc.wantState)
			}
			if got.ReviewIn != tc.wantIn {
				t.Fatalf("Schedule(%s, %v, %d).ReviewIn=%v, want %v", tc.current, tc.rate, tc.reviewCount, got.ReviewIn, tc.wantIn)
			}
		})
	}
}

func TestSchedule_UnknownStateTreatedAsNew(t *testing.T) {
	got := Schedule(State("bogus"), 0.95, 0)
	if got.Next != StateLearning || got.ReviewIn != 4*time.Hour {
		t.Fatalf("unexpected decision for unknown state: %+v", got)
	}
}
