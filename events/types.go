// Package events routes gameplay notifications between components on the game loop goroutine
package events

import (
	"github.com/lixenwraith/pinball/engine"
)

// EventType represents the type of game event
type EventType int

const (
	// EventLaunch signals plunger release
	// Trigger: launcher Release | Consumer: actuator launch effect, lifecycle (Launching -> Active)
	// Payload: Power
	EventLaunch EventType = iota

	// EventTargetHit signals a target took its first hit in the current cycle
	// Trigger: target handler | Consumer: TargetBank | Payload: Body
	EventTargetHit

	// EventAllTargetsCleared signals every target in the bank is down
	// Trigger: TargetBank | Consumer: session (HUD flash) | Payload: nil
	EventAllTargetsCleared

	// EventTargetsReset signals the bank re-armed after the bonus delay
	// Trigger: TargetBank timer | Payload: nil
	EventTargetsReset

	// EventScoreChanged mirrors a ledger change
	// Trigger: ScoreLedger | Payload: Score (new total)
	EventScoreChanged

	// EventBallDrained signals the ball crossed the drain line
	// Trigger: lifecycle Poll | Payload: Lives (remaining after the loss)
	EventBallDrained

	// EventBallReady signals a fresh ball waits in the launch bucket
	// Trigger: lifecycle settle timer | Payload: Lives
	EventBallReady

	// EventGameOver signals the last life was lost
	// Trigger: lifecycle settle timer | Payload: Score (final total)
	EventGameOver

	eventTypeCount
)

var typeNames = [eventTypeCount]string{
	"launch",
	"target_hit",
	"all_targets_cleared",
	"targets_reset",
	"score_changed",
	"ball_drained",
	"ball_ready",
	"game_over",
}

func (t EventType) String() string {
	if t >= 0 && t < eventTypeCount {
		return typeNames[t]
	}
	return "unknown"
}

// GameEvent is a routed notification, only the fields named by its type are set
type GameEvent struct {
	Type  EventType
	Power float64
	Body  engine.BodyID
	Score int
	Lives int
}
