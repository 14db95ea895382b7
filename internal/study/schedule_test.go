package study

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

func TestSchedule(t *testing.T) {
	tests := []struct {
		name  string
		state State
		grade Grade
		want  State
	}{
		{
			name:  "first pass",
			state: State{Ease: 2.5},
			grade: GradeGood,
			want:  State{Ease: 2.5, Interval: 1, Repetitions: 1},
		},
		{
			name:  "second pass",
			state: State{Ease: 2.5, Interval: 1, Repetitions: 1},
			grade: GradePerfect,
			want:  State{Ease: 2.6, Interval: 6, Repetitions: 2},
		},
		{
			name:  "third pass multiplies by ease",
			state: State{Ease: 2.5, Interval: 6, Repetitions: 2},
			grade: GradeGood,
			want:  State{Ease: 2.5, Interval: 15, Repetitions: 3},
		},
		{
			name:  "passing grade lowers ease",
			state: State{Ease: 2.5, Interval: 6, Repetitions: 2},
			grade: GradePassing,
			want:  State{Ease: 2.36, Interval: 15, Repetitions: 3},
		},
		{
			name:  "failure resets streak",
			state: State{Ease: 2.5, Interval: 15, Repetitions: 3},
			grade: GradeHard,
			want:  State{Ease: 2.18, Interval: 1, Repetitions: 0},
		},
		{
			name:  "ease floor",
			state: State{Ease: 1.3, Interval: 1, Repetitions: 0},
			grade: GradeBlackout,
			want:  State{Ease: models.MinEase, Interval: 1, Repetitions: 0},
		},
		{
			name:  "unset ease starts from default",
			state: State{},
			grade: GradeGood,
			want:  State{Ease: 2.5, Interval: 1, Repetitions: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Schedule(tt.state, tt.grade)
			if got.Interval != tt.want.Interval || got.Repetitions != tt.want.Repetitions {
				t.Errorf("Schedule() = %+v, want %+v", got, tt.want)
			}
			if math.Abs(got.Ease-tt.want.Ease) > 1e-9 {
				t.Errorf("Schedule() ease = %f, want %f", got.Ease, tt.want.Ease)
			}
		})
	}

	t.Run("Due adds interval days", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		due := State{Interval: 6}.Due(now)
		if !due.Equal(time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("Due() = %v", due)
		}
	})
}

func TestGrade(t *testing.T) {
	t.Run("ParseGrade", func(t *testing.T) {
		for in, want := range map[string]Grade{"0": GradeBlackout, " 3 ": GradePassing, "5": GradePerfect} {
			got, err := ParseGrade(in)
			if err != nil {
				t.Fatalf("ParseGrade(%q) error = %v", in, err)
			}
			if got != want {
				t.Errorf("ParseGrade(%q) = %v, want %v", in, got, want)
			}
		}

		for _, in := range []string{"", "six", "6", "-1"} {
			if _, err := ParseGrade(in); !errors.Is(err, shared.ErrInvalidGrade) {
				t.Errorf("ParseGrade(%q) expected ErrInvalidGrade, got %v", in, err)
			}
		}
	})

	t.Run("String", func(t *testing.T) {
		if GradeGood.String() != "good" {
			t.Errorf("unexpected label %q", GradeGood.String())
		}
		if Grade(9).String() != "Grade(9)" {
			t.Errorf("unexpected label %q", Grade(9).String())
		}
	})

	t.Run("Passed", func(t *testing.T) {
		if GradeHard.Passed() || !GradePassing.Passed() {
			t.Error("grade 3 is the lowest passing grade")
		}
	})
}
