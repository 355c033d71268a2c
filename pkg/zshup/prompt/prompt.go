// Package prompt provides the yes/no confirmation gate used before any
// destructive or system-changing step.
package prompt

import "github.com/pterm/pterm"

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	// Confirm returns the user's answer, or defaultYes when the user
	// just presses enter.
	Confirm(question string, defaultYes bool) bool
}

// Interactive prompts on the terminal.
type Interactive struct{}

// Confirm shows an interactive confirmation prompt. A prompt failure
// (e.g. no TTY) is treated as a decline, never as consent.
func (Interactive) Confirm(question string, defaultYes bool) bool {
	answer, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(defaultYes).
		Show(question)
	if err != nil {
		return false
	}
	return answer
}

// AssumeYes answers yes to everything; used for --yes.
type AssumeYes struct{}

func (AssumeYes) Confirm(string, bool) bool { return true }

// Scripted replays a fixed sequence of answers; used in tests. Once the
// answers run out it returns the fallback.
type Scripted struct {
	Answers  []bool
	Fallback bool

	// Questions records every question asked, in order.
	Questions []string

	next int
}

func (s *Scripted) Confirm(question string, _ bool) bool {
	s.Questions = append(s.Questions, question)
	if s.next < len(s.Answers) {
		answer := s.Answers[s.next]
		s.next++
		return answer
	}
	return s.Fallback
}

var (
	_ Confirmer = Interactive{}
	_ Confirmer = AssumeYes{}
	_ Confirmer = (*Scripted)(nil)
)
