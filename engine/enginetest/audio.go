package enginetest

import "github.com/lixenwraith/pinball/engine"

// Audio records played cues
type Audio struct {
	Cues []engine.Cue
}

func (a *Audio) PlayCue(c engine.Cue) {
	a.Cues = append(a.Cues, c)
}

// Count returns how many times c was played
func (a *Audio) Count(c engine.Cue) int {
	n := 0
	for _, got := range a.Cues {
		if got == c {
			n++
		}
	}
	return n
}
