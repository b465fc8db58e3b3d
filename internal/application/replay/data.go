// Package replay records raw input events per frame and plays them back
// through an input.Source.
package replay

import "github.com/younwookim/stagekit/internal/application/input"

// Version is written into every recording
const Version = "2.0"

// FrameInput records the raw events applied in a single frame
type FrameInput struct {
	F      int           `json:"f"`           // Frame number
	Events []input.Event `json:"e,omitempty"` // Empty frames carry no events
}

// ReplayData contains all data needed to replay a game session
type ReplayData struct {
	Version   string       `json:"version"`
	Scene     string       `json:"scene"` // Scene the recording started in
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}
