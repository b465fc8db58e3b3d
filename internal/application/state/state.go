// Package state defines the lifecycle state the scene stack tracks per scene.
package state

// SceneState represents where a scene is in its enter/exit lifecycle
type SceneState int

const (
	// StateDetached: not on the stack
	StateDetached SceneState = iota
	// StateActive: entered and on top of the stack
	StateActive
	// StatePaused: entered, covered by a scene pushed above it
	StatePaused
	// StateExited: being popped, OnExit is running
	StateExited
)

// String returns the string representation of the scene state
func (s SceneState) String() string {
	switch s {
	case StateDetached:
		return "Detached"
	case StateActive:
		return "Active"
	case StatePaused:
		return "Paused"
	case StateExited:
		return "Exited"
	default:
		return "Unknown"
	}
}
