// Package study schedules and records reviews of the callout deck.
//
// Scheduling follows SM-2: each review is graded 0 to 5, a grade below 3 restarts the entry, and passing grades
// stretch the interval by the entry's ease factor.
package study

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/shared"
)

// Grade is the quality of a recall, from 0 (blackout) to 5 (perfect).
type Grade int

const (
	GradeBlackout Grade = iota
	GradeWrong
	GradeHard
	GradePassing
	GradeGood
	GradePerfect
)

var gradeLabels = [...]string{"blackout", "wrong", "hard", "passing", "good", "perfect"}

// Valid reports whether g is in range.
func (g Grade) Valid() bool {
	return g >= GradeBlackout && g <= GradePerfect
}

// Passed reports whether g keeps the entry's streak.
func (g Grade) Passed() bool {
	return g >= GradePassing
}

func (g Grade) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Grade(%d)", int(g))
	}
	return gradeLabels[g]
}

// ParseGrade parses a form or key value into a [Grade].
func ParseGrade(s string) (Grade, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", shared.ErrInvalidGrade, s)
	}
	g := Grade(n)
	if !g.Valid() {
		return 0, fmt.Errorf("%w: %d", shared.ErrInvalidGrade, n)
	}
	return g, nil
}

// State is the scheduling state carried by an entry.
type State struct {
	Ease        float64
	Interval    int // days
	Repetitions int
}

// StateOf returns the scheduling state of entry.
func StateOf(entry *models.Entry) State {
	return State{Ease: entry.Ease(), Interval: entry.Interval(), Repetitions: entry.Repetitions()}
}

// Schedule returns the state that follows a review graded g.
func Schedule(s State, g Grade) State {
	if s.Ease < models.MinEase {
		s.Ease = models.DefaultEase
	}

	next := State{Ease: s.Ease}
	if !g.Passed() {
		next.Repetitions = 0
		next.Interval = 1
	} else {
		next.Repetitions = s.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.Interval = 1
		case 2:
			next.Interval = 6
		default:
			next.Interval = int(math.Round(float64(s.Interval) * s.Ease))
		}
	}

	q := float64(GradePerfect - g)
	next.Ease = max(s.Ease+0.1-q*(0.08+q*0.02), models.MinEase)
	return next
}

// Due returns when an entry reviewed at now with state s is next due.
func (s State) Due(now time.Time) time.Time {
	return now.AddDate(0, 0, s.Interval)
}
