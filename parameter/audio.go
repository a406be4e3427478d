package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// AudioQueueSize bounds pending cues, extra cues are dropped
	AudioQueueSize = 32
)

// Cue tones
const (
	PaddleCueFreq = 200.0
	BumperCueFreq = 400.0
	TargetCueFreq = 600.0
	LaunchCueFreq = 300.0
	DrainCueFreq  = 100.0
	CueDuration   = 100 * time.Millisecond
	CueAttack     = 5 * time.Millisecond
	CueRelease    = 40 * time.Millisecond
	DefaultVolume = 0.7
	PaddleCueGain = 0.1
	BumperCueGain = 0.15
	TargetCueGain = 0.15
	LaunchCueGain = 0.2
	DrainCueGain  = 0.15
)
