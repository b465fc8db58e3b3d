package scene

import "fmt"

// TransitionKind identifies the stack change a Transition requests
type TransitionKind int

const (
	KindPush TransitionKind = iota
	KindPop
	KindReplace
	KindPopN
	KindQuit
)

// String returns the string representation of the transition kind
func (k TransitionKind) String() string {
	switch k {
	case KindPush:
		return "Push"
	case KindPop:
		return "Pop"
	case KindReplace:
		return "Replace"
	case KindPopN:
		return "PopN"
	case KindQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Transition is a one-shot request to change the scene stack.
// It is applied by the manager after the frame's update pass.
// Push and Replace transfer ownership of the new scene to the stack.
type Transition struct {
	Kind  TransitionKind
	Scene Scene // Push, Replace
	Count int   // PopN
}

// Push places s on top of the stack. The current top stays resident.
func Push(s Scene) *Transition {
	return &Transition{Kind: KindPush, Scene: s}
}

// Pop removes the top scene. Popping the last scene ends the run.
func Pop() *Transition {
	return &Transition{Kind: KindPop}
}

// Replace exits the top scene and enters s in its place.
func Replace(s Scene) *Transition {
	return &Transition{Kind: KindReplace, Scene: s}
}

// PopN removes n scenes from the top, stopping at an empty stack.
func PopN(n int) *Transition {
	return &Transition{Kind: KindPopN, Count: n}
}

// Quit exits every scene, top to bottom, and empties the stack.
func Quit() *Transition {
	return &Transition{Kind: KindQuit}
}

func (t *Transition) String() string {
	if t == nil {
		return "Stay"
	}
	switch t.Kind {
	case KindPush, KindReplace:
		return fmt.Sprintf("%s(%T)", t.Kind, t.Scene)
	case KindPopN:
		return fmt.Sprintf("PopN(%d)", t.Count)
	default:
		return t.Kind.String()
	}
}

// Delta returns the change in stack depth the transition makes on a stack
// of the given depth.
func (t *Transition) Delta(depth int) int {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case KindPush:
		return 1
	case KindPop:
		if depth == 0 {
			return 0
		}
		return -1
	case KindPopN:
		return -min(t.Count, depth)
	case KindQuit:
		return -depth
	default:
		return 0
	}
}
