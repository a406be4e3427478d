package game

import (
	"github.com/lixenwraith/pinball/lifecycle"
	"github.com/lixenwraith/pinball/table"
	"github.com/lixenwraith/pinball/vmath"
)

// PaddleView is a paddle blade in world space
type PaddleView struct {
	Pivot vmath.Vec2F
	Tip   vmath.Vec2F
	Angle float64
}

// TargetView is one target and whether it is down
type TargetView struct {
	Position vmath.Vec2F
	Hit      bool
}

// Snapshot is a read-only frame of session state for renderers
type Snapshot struct {
	Layout *table.Layout

	Phase     Phase
	Lifecycle lifecycle.State
	Score     int
	Lives     int

	BallVisible  bool
	Ball         vmath.Vec2F
	Paddles      [2]PaddleView
	Bumpers      []vmath.Vec2F
	Targets      []TargetView
	Power        float64
	MinPower     float64
	MaxPower     float64
	Charging     bool
	Paused       bool
	Instructions bool
	BonusFlash   bool
	Metrics      []string
}

// Snapshot copies the state needed to draw one frame
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:  s.phase,
		Score:  s.Score(),
		Lives:  s.Lives(),
		Paused: s.paused,
	}
	if !s.started || s.closed {
		return snap
	}

	snap.Layout = s.table.Layout()
	snap.Lifecycle = s.lifecycle.State()
	snap.Instructions = s.showInstructions
	snap.BonusFlash = s.bonusFlash
	snap.Metrics = s.reg.Lines()

	if st, ok := s.table.BallState(); ok {
		snap.BallVisible = true
		snap.Ball = st.Position
	}

	for i, side := range []table.Side{table.SideLeft, table.SideRight} {
		p := s.table.Paddle(side)
		angle := s.actuators.Paddle(side).Angle()
		snap.Paddles[i] = PaddleView{Pivot: p.Pivot, Tip: p.Tip(angle), Angle: angle}
	}

	for _, e := range s.table.Bumpers() {
		snap.Bumpers = append(snap.Bumpers, e.Position)
	}
	for _, tg := range s.targets {
		snap.Targets = append(snap.Targets, TargetView{Position: tg.Element().Position, Hit: tg.Hit()})
	}

	l := s.actuators.Launcher()
	snap.Power = l.Power()
	snap.MinPower, snap.MaxPower = l.Range()
	snap.Charging = l.Charging()
	return snap
}
