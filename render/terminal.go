package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/game"
	"github.com/lixenwraith/pinball/highscore"
	"github.com/lixenwraith/pinball/lifecycle"
	"github.com/lixenwraith/pinball/parameter"
	"github.com/lixenwraith/pinball/table"
	"github.com/lixenwraith/pinball/vmath"
)

const (
	// hudWidth is the column budget for the side panel
	hudWidth = 26

	// cellAspect is the height of a terminal cell relative to its width
	cellAspect = 2.0

	powerBarWidth = 16
)

// Frame is everything drawn in one refresh
type Frame struct {
	Snapshot   game.Snapshot
	Board      highscore.Board
	BoardReady bool
	Initials   string
	Muted      bool
	Debug      bool
}

// TerminalRenderer draws session snapshots onto a tcell screen
type TerminalRenderer struct {
	screen tcell.Screen
	base   tcell.Style
}

// NewTerminalRenderer creates a renderer for screen
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	return &TerminalRenderer{
		screen: screen,
		base:   tcell.StyleDefault.Background(RgbBackground),
	}
}

// RenderFrame draws the table, side panel and overlays, then shows the screen
func (r *TerminalRenderer) RenderFrame(f Frame) {
	r.screen.Fill(' ', r.base)
	w, h := r.screen.Size()

	snap := f.Snapshot
	if snap.Layout != nil {
		vp := newViewport(w, h, snap.Layout)
		r.drawTable(vp, snap)
		r.drawHUD(vp.x0+vp.cols+1, f)

		switch {
		case snap.Phase == game.PhaseGameOver:
			r.drawGameOver(vp, f)
		case snap.Paused:
			r.drawBanner(vp, vp.rows/2, []string{"PAUSED", "p to resume"}, RgbOverlayText)
		case snap.Instructions:
			r.drawBanner(vp, vp.rows/3, instructions, RgbOverlayText)
		}
		if snap.BonusFlash && snap.Phase != game.PhaseGameOver {
			r.drawBanner(vp, vp.rows/4, []string{"*** BONUS ***"}, RgbBonus)
		}
	}

	r.screen.Show()
}

var instructions = []string{
	"SPACE   charge / launch",
	"LEFT  z paddle",
	"RIGHT / paddle",
	"p pause  s mute  q quit",
}

// viewport maps table units to screen cells
type viewport struct {
	x0, y0     int
	cols, rows int
	sx, sy     float64 // table units per cell
}

func newViewport(w, h int, l *table.Layout) viewport {
	avail := w - hudWidth
	if avail < 8 {
		avail = w
	}
	rows := h
	if rows < 1 {
		rows = 1
	}

	sy := l.Height / float64(rows)
	sx := sy / cellAspect
	if l.Width/sx > float64(avail) {
		sx = l.Width / float64(avail)
		sy = sx * cellAspect
	}

	return viewport{
		cols: int(math.Ceil(l.Width/sx - 1e-9)),
		rows: int(math.Ceil(l.Height/sy - 1e-9)),
		sx:   sx,
		sy:   sy,
	}
}

// cell returns the screen cell containing p
func (v viewport) cell(p vmath.Vec2F) (int, int, bool) {
	cx := int(math.Floor(p.X / v.sx))
	cy := int(math.Floor(p.Y / v.sy))
	if cx < 0 || cx >= v.cols || cy < 0 || cy >= v.rows {
		return 0, 0, false
	}
	return v.x0 + cx, v.y0 + cy, true
}

// center returns the table point at the middle of a viewport cell
func (v viewport) center(cx, cy int) vmath.Vec2F {
	return vmath.V2F((float64(cx-v.x0)+0.5)*v.sx, (float64(cy-v.y0)+0.5)*v.sy)
}

func (r *TerminalRenderer) set(v viewport, p vmath.Vec2F, ch rune, style tcell.Style) {
	if x, y, ok := v.cell(p); ok {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

func (r *TerminalRenderer) drawTable(v viewport, snap game.Snapshot) {
	l := snap.Layout

	for _, wall := range l.Walls {
		style := r.base.Foreground(RgbWall)
		ch := '#'
		switch {
		case strings.HasPrefix(wall.Name, "kicker"):
			style = r.base.Foreground(RgbKicker)
			ch = '*'
		case wall.Pass != (vmath.Vec2F{}):
			style = r.base.Foreground(RgbLane)
			ch = '-'
		case strings.HasPrefix(wall.Name, "guide"), strings.HasPrefix(wall.Name, "inlane"), strings.HasPrefix(wall.Name, "outlane"), wall.Name == "lane-deflector":
			ch = '+'
		case wall.Name == "bucket-floor":
			style = r.base.Foreground(RgbLane)
			ch = '='
		}
		for _, s := range wall.Shapes {
			r.drawShape(v, wall.Position, s, ch, style)
		}
	}

	for _, b := range snap.Bumpers {
		r.fillCircle(v, b, parameter.BumperRadius, 'O', r.base.Foreground(RgbBumper))
	}

	for _, tg := range snap.Targets {
		style := r.base.Foreground(RgbTargetLit)
		ch := '█'
		if tg.Hit {
			style = r.base.Foreground(RgbTargetDown)
			ch = '░'
		}
		r.fillBox(v, tg.Position, parameter.TargetWidth, parameter.TargetHeight, ch, style)
	}

	paddleStyle := r.base.Foreground(RgbPaddle)
	for _, p := range snap.Paddles {
		r.drawSegment(v, p.Pivot, p.Tip, '=', paddleStyle)
		r.set(v, p.Pivot, 'o', paddleStyle)
	}

	if snap.BallVisible {
		r.set(v, snap.Ball, '●', r.base.Foreground(RgbBall).Bold(true))
	}
}

func (r *TerminalRenderer) drawShape(v viewport, origin vmath.Vec2F, s engine.Shape, ch rune, style tcell.Style) {
	switch s.Kind {
	case engine.ShapeCircle:
		r.fillCircle(v, origin, s.Radius, ch, style)
	case engine.ShapeBox:
		r.fillBox(v, origin, s.Width, s.Height, ch, style)
	case engine.ShapeSegment:
		r.drawSegment(v, vmath.V2FAdd(origin, s.A), vmath.V2FAdd(origin, s.B), ch, style)
	}
}

// drawSegment samples a line at half-cell spacing
func (r *TerminalRenderer) drawSegment(v viewport, a, b vmath.Vec2F, ch rune, style tcell.Style) {
	steps := int(math.Max(math.Abs(b.X-a.X)/v.sx, math.Abs(b.Y-a.Y)/v.sy)*2) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		r.set(v, vmath.V2FLerp(a, b, t), ch, style)
	}
}

// fillBox fills every cell whose center lies in the centered box, always marking the center cell
func (r *TerminalRenderer) fillBox(v viewport, c vmath.Vec2F, w, h float64, ch rune, style tcell.Style) {
	x0, y0, _ := v.cellClamped(vmath.V2F(c.X-w/2, c.Y-h/2))
	x1, y1, _ := v.cellClamped(vmath.V2F(c.X+w/2, c.Y+h/2))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			p := v.center(x, y)
			if math.Abs(p.X-c.X) <= w/2 && math.Abs(p.Y-c.Y) <= h/2 {
				r.screen.SetContent(x, y, ch, nil, style)
			}
		}
	}
	r.set(v, c, ch, style)
}

// fillCircle fills every cell whose center lies in the circle, always marking the center cell
func (r *TerminalRenderer) fillCircle(v viewport, c vmath.Vec2F, radius float64, ch rune, style tcell.Style) {
	x0, y0, _ := v.cellClamped(vmath.V2F(c.X-radius, c.Y-radius))
	x1, y1, _ := v.cellClamped(vmath.V2F(c.X+radius, c.Y+radius))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if vmath.V2FDist(v.center(x, y), c) <= radius {
				r.screen.SetContent(x, y, ch, nil, style)
			}
		}
	}
	r.set(v, c, ch, style)
}

// cellClamped is cell with the result pinned inside the viewport
func (v viewport) cellClamped(p vmath.Vec2F) (int, int, bool) {
	cx := int(math.Floor(p.X / v.sx))
	cy := int(math.Floor(p.Y / v.sy))
	inside := cx >= 0 && cx < v.cols && cy >= 0 && cy < v.rows
	cx = max(0, min(cx, v.cols-1))
	cy = max(0, min(cy, v.rows-1))
	return v.x0 + cx, v.y0 + cy, inside
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func (r *TerminalRenderer) drawHUD(x int, f Frame) {
	snap := f.Snapshot
	text := r.base.Foreground(RgbStatusText)
	dim := r.base.Foreground(RgbStatusDim)

	y := 0
	r.drawText(x, y, "PINBALL", text.Bold(true))
	y += 2
	r.drawText(x, y, fmt.Sprintf("SCORE  %d", snap.Score), text)
	y++
	r.drawText(x, y, fmt.Sprintf("BALLS  %d", snap.Lives), text)
	y += 2

	r.drawText(x, y, "POWER", dim)
	y++
	r.drawPowerBar(x, y, snap)
	y += 2

	r.drawText(x, y, stateLabel(snap), dim)
	y++
	if f.Muted {
		r.drawText(x, y, "MUTED", dim)
		y++
	}

	if f.Debug {
		y++
		for _, line := range snap.Metrics {
			r.drawText(x, y, line, dim)
			y++
		}
	}
}

func (r *TerminalRenderer) drawPowerBar(x, y int, snap game.Snapshot) {
	fill := 0
	if span := snap.MaxPower - snap.MinPower; span > 0 && snap.Power > 0 {
		frac := (snap.Power - snap.MinPower) / span
		fill = int(math.Round(math.Max(0, math.Min(1, frac)) * powerBarWidth))
	}

	r.screen.SetContent(x, y, '[', nil, r.base.Foreground(RgbStatusDim))
	for i := 0; i < powerBarWidth; i++ {
		ch, color := '·', RgbStatusDim
		if i < fill {
			ch, color = '▮', RgbPowerLow
			if i >= powerBarWidth*3/4 {
				color = RgbPowerHigh
			}
		}
		r.screen.SetContent(x+1+i, y, ch, nil, r.base.Foreground(color))
	}
	r.screen.SetContent(x+1+powerBarWidth, y, ']', nil, r.base.Foreground(RgbStatusDim))
}

func stateLabel(snap game.Snapshot) string {
	switch {
	case snap.Phase == game.PhaseGameOver:
		return "GAME OVER"
	case snap.Paused:
		return "PAUSED"
	case snap.Charging:
		return "CHARGING"
	}
	switch snap.Lifecycle {
	case lifecycle.StateLaunching:
		return "READY TO LAUNCH"
	case lifecycle.StateDraining:
		return "DRAINED"
	}
	return "IN PLAY"
}

// drawBanner centers lines over the table on a panel background
func (r *TerminalRenderer) drawBanner(v viewport, y int, lines []string, fg tcell.Color) {
	style := tcell.StyleDefault.Background(RgbOverlayBg).Foreground(fg)
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width += 2
	x := v.x0 + (v.cols-width)/2
	if x < v.x0 {
		x = v.x0
	}

	for i, l := range lines {
		row := v.y0 + y + i
		for c := 0; c < width; c++ {
			r.screen.SetContent(x+c, row, ' ', nil, style)
		}
		pad := (width - len([]rune(l))) / 2
		r.drawText(x+pad, row, l, style)
	}
}

func (r *TerminalRenderer) drawGameOver(v viewport, f Frame) {
	lines := []string{
		"GAME OVER",
		fmt.Sprintf("FINAL %d", f.Snapshot.Score),
		"",
	}

	switch {
	case !f.BoardReady:
		lines = append(lines, "saving...")
	case f.Board.Err != nil:
		lines = append(lines, "scores unavailable")
	default:
		if f.Board.NewHigh && f.Board.Saved {
			lines = append(lines, fmt.Sprintf("NEW HIGH SCORE  %s", f.Initials))
		}
		for i, e := range f.Board.Entries {
			lines = append(lines, fmt.Sprintf("%2d. %-3s %8d", i+1, e.Initials, e.Score))
		}
	}
	lines = append(lines, "", "n new game  q quit")

	fg := RgbOverlayText
	if f.Snapshot.Score == 0 {
		fg = RgbGameOver
	}
	r.drawBanner(v, max(0, (v.rows-len(lines))/3), lines, fg)
}
