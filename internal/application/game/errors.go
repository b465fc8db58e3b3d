package game

import (
	"errors"
	"fmt"

	"github.com/younwookim/stagekit/internal/application/scene"
)

// Transition failures. They indicate a bug in scene logic and are returned
// from Tick instead of being applied.
var (
	ErrMultipleTransitions = errors.New("more than one transition requested in a frame")
	ErrInvalidPop          = errors.New("pop on an empty scene stack")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrReentrantTransition = errors.New("transition applied while the stack is dispatching")
	ErrTransitionBelowTop  = errors.New("transition requested by a scene below the top")
)

// TransitionError describes a transition that could not be applied.
type TransitionError struct {
	Err        error // One of the Err* sentinels
	Transition *scene.Transition
	Depth      int // Stack depth when the transition was rejected
	Requested  int // Transitions requested in the frame
}

func (e *TransitionError) Error() string {
	if e.Err == ErrMultipleTransitions {
		return fmt.Sprintf("scene stack: %d transitions requested at depth %d: %v", e.Requested, e.Depth, e.Err)
	}
	return fmt.Sprintf("scene stack: %s at depth %d: %v", e.Transition, e.Depth, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
