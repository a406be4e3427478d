package engine

// Cue names a fire-and-forget sound effect
type Cue uint8

const (
	CuePaddle Cue = iota
	CueBumper
	CueTarget
	CueLaunch
	CueDrain
	CueCount
)

var cueNames = [CueCount]string{"paddle", "bumper", "target", "launch", "drain"}

func (c Cue) String() string {
	if c < CueCount {
		return cueNames[c]
	}
	return "unknown"
}

// AudioPlayer plays cues without blocking the caller
type AudioPlayer interface {
	PlayCue(c Cue)
}

// NopAudio discards every cue
type NopAudio struct{}

func (NopAudio) PlayCue(Cue) {}

// Input is the per-tick control state relayed to actuators
// Paddle flags are levels; ChargeStart and Release are edges latched since the previous tick
type Input struct {
	LeftPaddle  bool
	RightPaddle bool
	ChargeStart bool
	Release     bool
}

// InputSource yields the control state for the current tick
type InputSource interface {
	Poll() Input
}
