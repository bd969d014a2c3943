package entity

import "fmt"

// OnboardingStep is one position in the fixed onboarding sequence.
// Immutable after catalog construction.
type OnboardingStep struct {
	Position         int    `json:"position"`
	Field            string `json:"field"`
	Prompt           string `json:"prompt"`
	SystemContext    string `json:"system_context"`
	ValidationPrompt string `json:"validation_prompt"`
}

// StepCatalog is the ordered, immutable definition of the onboarding
// sequence. Index i holds the step with position i.
type StepCatalog []OnboardingStep

// StepAt returns the step at the given position, or nil when the
// position is past the end of the sequence (onboarding complete).
func (c StepCatalog) StepAt(position int) *OnboardingStep {
	if position < 0 || position >= len(c) {
		return nil
	}
	step := c[position]
	return &step
}

// Len returns the number of defined steps.
func (c StepCatalog) Len() int {
	return len(c)
}

// Validate checks the catalog configuration invariants: positions are
// contiguous from 0, every step names a real profile field, and every
// prompt is present. A gap would make later steps unreachable, so a
// broken catalog is a startup error.
func (c StepCatalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("step catalog is empty")
	}
	for i, step := range c {
		if step.Position != i {
			return fmt.Errorf("step %d: position %d is not contiguous", i, step.Position)
		}
		if !IsProfileField(step.Field) {
			return fmt.Errorf("step %d: %w: %q", i, ErrUnknownField, step.Field)
		}
		if step.Prompt == "" {
			return fmt.Errorf("step %d: prompt is empty", i)
		}
		if step.SystemContext == "" {
			return fmt.Errorf("step %d: system context is empty", i)
		}
		if step.ValidationPrompt == "" {
			return fmt.Errorf("step %d: validation prompt is empty", i)
		}
	}
	return nil
}
