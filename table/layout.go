package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/lixenwraith/pinball/config"
	"github.com/lixenwraith/pinball/engine"
	"github.com/lixenwraith/pinball/parameter"
	"github.com/lixenwraith/pinball/vmath"
)

// Static body materials
var (
	wallMaterial   = engine.Material{Elasticity: parameter.WallElasticity, Friction: parameter.WallFriction}
	guideMaterial  = engine.Material{Elasticity: parameter.WallElasticity, Friction: parameter.GuideFriction}
	bucketMaterial = engine.Material{Elasticity: parameter.BucketElasticity, Friction: parameter.BucketFriction}
	kickerMaterial = engine.Material{Elasticity: parameter.KickerElasticity, Friction: parameter.WallFriction}
	bumperMaterial = engine.Material{Elasticity: parameter.BumperElasticity, Friction: parameter.WallFriction}
	targetMaterial = engine.Material{Elasticity: parameter.TargetElasticity, Friction: parameter.WallFriction}
	paddleMaterial = engine.Material{Elasticity: parameter.PaddleElasticity, Friction: parameter.PaddleFriction}
	ballMaterial   = engine.Material{Elasticity: parameter.BallElasticity, Friction: parameter.BallFriction}
)

// Rect is an axis-aligned region, Min inclusive and Max exclusive
type Rect struct {
	Min, Max vmath.Vec2F
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p vmath.Vec2F) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// WallSpec is one static non-scoring body
type WallSpec struct {
	Name     string
	Position vmath.Vec2F
	Shapes   []engine.Shape
	Material engine.Material

	// Pass is the crossing direction of a one-way gate, zero for solid walls
	Pass vmath.Vec2F
}

// extent returns the horizontal span of the wall including shape thickness
func (w WallSpec) extent() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range w.Shapes {
		var a, b float64
		switch s.Kind {
		case engine.ShapeSegment:
			a, b = math.Min(s.A.X, s.B.X)-s.Radius, math.Max(s.A.X, s.B.X)+s.Radius
		case engine.ShapeBox:
			a, b = -s.Width/2, s.Width/2
		default:
			a, b = -s.Radius, s.Radius
		}
		lo = math.Min(lo, w.Position.X+a)
		hi = math.Max(hi, w.Position.X+b)
	}
	return lo, hi
}

// laneOwned reports whether the wall belongs to the frame or the launch lane itself
func (w WallSpec) laneOwned() bool {
	for _, prefix := range []string{"wall-", "lane-", "bucket-"} {
		if strings.HasPrefix(w.Name, prefix) {
			return true
		}
	}
	return false
}

// PaddleSpec places one paddle
type PaddleSpec struct {
	Side   Side
	Pivot  vmath.Vec2F
	Rest   float64
	Active float64
}

// Tip returns the world-space end of the paddle blade at angle
func (p PaddleSpec) Tip(angle float64) vmath.Vec2F {
	local := vmath.V2F(p.Side.Sign()*parameter.PaddleLength, 0)
	return vmath.V2FAdd(p.Pivot, vmath.V2FRotate(local, -angle))
}

// Layout is the full table geometry in creation order
type Layout struct {
	Width, Height float64
	DrainLine     float64
	BallRadius    float64
	BallSpawn     vmath.Vec2F
	Lane          Rect

	Walls   []WallSpec
	Bumpers []vmath.Vec2F
	Targets []vmath.Vec2F
	Paddles [2]PaddleSpec
}

// NewLayout computes the stock geometry scaled to the configured table size
// Positions scale with the table, element sizes do not
func NewLayout(cfg *config.Config) *Layout {
	sx := cfg.Table.Width / parameter.TableWidth
	sy := cfg.Table.Height / parameter.TableHeight
	pt := func(x, y float64) vmath.Vec2F { return vmath.V2F(x*sx, y*sy) }
	mirror := func(x float64) float64 { return 2*parameter.PlayfieldCenter - x }

	w, h := cfg.Table.Width, cfg.Table.Height
	wt := parameter.WallThickness
	gr := parameter.GuideHalfWidth

	l := &Layout{
		Width:      w,
		Height:     h,
		DrainLine:  cfg.Table.DrainLine(),
		BallRadius: cfg.Table.BallRadius,
		BallSpawn:  vmath.V2F(w-(parameter.TableWidth-parameter.BallSpawnX), h-(parameter.TableHeight-parameter.BallSpawnY)),
	}

	// Outer frame
	l.Walls = append(l.Walls,
		WallSpec{Name: "wall-left", Position: vmath.V2F(wt/2, h/2), Shapes: []engine.Shape{engine.Box(wt, h)}, Material: wallMaterial},
		WallSpec{Name: "wall-right", Position: vmath.V2F(w-wt/2, h/2), Shapes: []engine.Shape{engine.Box(wt, h)}, Material: wallMaterial},
		WallSpec{Name: "wall-top", Position: vmath.V2F(w/2, wt/2), Shapes: []engine.Shape{engine.Box(w, wt)}, Material: wallMaterial},
	)

	// Curved guides: the left orbit rounds the top-left corner and the deflector turns
	// the launched ball out of the lane, the right inner arc splits the top-right approach
	cr := parameter.CurvedGuideRadius
	ir := parameter.CurvedGuideInnerRadius
	inset := parameter.CurvedGuideInnerInset
	exit := parameter.CurvedGuideExit
	leftC := vmath.V2F(wt+cr, wt+cr)
	rightC := vmath.V2F(mirror(leftC.X)*sx, leftC.Y)
	deflectC := vmath.V2F(w-wt-cr, wt+cr)
	l.Walls = append(l.Walls,
		WallSpec{Name: "guide-left-outer", Shapes: arc(leftC, cr, math.Pi-exit, 1.5*math.Pi, gr), Material: guideMaterial},
		WallSpec{Name: "guide-left-inner", Shapes: arc(leftC, ir, math.Pi-exit+inset, 1.5*math.Pi-inset, gr), Material: guideMaterial},
		WallSpec{Name: "guide-right-inner", Shapes: arc(rightC, ir, 1.5*math.Pi+inset, 1.5*math.Pi+exit-inset, gr), Material: guideMaterial},
		WallSpec{Name: "lane-deflector", Shapes: arc(deflectC, cr, 1.5*math.Pi, 2*math.Pi, gr), Material: guideMaterial},
	)

	// Launch lane, closed above by a one-way gate so a ball on the playfield never falls back in
	sepX := parameter.LaneSeparatorX * sx
	sepTop := pt(parameter.LaneSeparatorX, parameter.LaneSeparatorTop)
	l.Walls = append(l.Walls,
		segmentWall("lane-separator", sepTop, pt(parameter.LaneSeparatorX, parameter.BucketWallTop), wt/2, wallMaterial),
		WallSpec{
			Name:     "bucket-floor",
			Position: vmath.V2F((sepX+w)/2, parameter.BucketFloorY*sy),
			Shapes:   []engine.Shape{engine.Box(w-sepX, wt)},
			Material: bucketMaterial,
		},
		segmentWall("bucket-wall", pt(parameter.LaneSeparatorX, parameter.BucketWallTop), pt(parameter.LaneSeparatorX, parameter.LaneSeparatorBottom), wt/2, wallMaterial),
		WallSpec{
			Name:     "lane-gate",
			Shapes:   []engine.Shape{engine.Segment(sepTop, vmath.V2F(w-wt, sepTop.Y-parameter.LaneGateRise*sy), gr)},
			Material: guideMaterial,
			Pass:     vmath.V2F(0, -1),
		},
	)
	l.Lane = Rect{
		Min: vmath.V2F(sepX+wt/2, parameter.LaneSeparatorTop*sy),
		Max: vmath.V2F(w-wt, parameter.BucketFloorY*sy),
	}

	// Slingshot kickers, the outer edge runs parallel to the outlane guide
	outTop := vmath.V2F(parameter.OutlaneTopX, parameter.OutlaneTopY)
	along := vmath.V2FNormalize(vmath.V2FSub(vmath.V2F(parameter.OutlaneBottomX, parameter.OutlaneBottomY), outTop))
	across := vmath.V2F(along.Y, -along.X)
	alongGuide := func(t float64) vmath.Vec2F {
		return vmath.V2FAdd(vmath.V2FAdd(outTop, vmath.V2FScale(across, parameter.KickerOffset)), vmath.V2FScale(along, t))
	}
	kickerPts := [3]vmath.Vec2F{alongGuide(parameter.KickerEdgeStart), alongGuide(parameter.KickerEdgeEnd), vmath.V2F(parameter.KickerTipX, parameter.KickerTipY)}
	kicker := func(name string, flip bool) WallSpec {
		var p [3]vmath.Vec2F
		for i, k := range kickerPts {
			if flip {
				k.X = mirror(k.X)
			}
			p[i] = pt(k.X, k.Y)
		}
		return WallSpec{
			Name: name,
			Shapes: []engine.Shape{
				engine.Segment(p[0], p[1], gr),
				engine.Segment(p[1], p[2], gr),
				engine.Segment(p[2], p[0], gr),
			},
			Material: kickerMaterial,
		}
	}
	l.Walls = append(l.Walls, kicker("kicker-left", false), kicker("kicker-right", true))

	// Inlane posts and outlane guides
	l.Walls = append(l.Walls,
		segmentWall("inlane-left", pt(parameter.InlaneX, parameter.InlaneTopY), pt(parameter.InlaneX, parameter.InlaneBottomY), gr, guideMaterial),
		segmentWall("inlane-right", pt(mirror(parameter.InlaneX), parameter.InlaneTopY), pt(mirror(parameter.InlaneX), parameter.InlaneBottomY), gr, guideMaterial),
		segmentWall("outlane-left", pt(parameter.OutlaneTopX, parameter.OutlaneTopY), pt(parameter.OutlaneBottomX, parameter.OutlaneBottomY), gr, guideMaterial),
		segmentWall("outlane-right", pt(mirror(parameter.OutlaneTopX), parameter.OutlaneTopY), pt(mirror(parameter.OutlaneBottomX), parameter.OutlaneBottomY), gr, guideMaterial),
	)

	// Bumpers in a diamond
	cx, cy := parameter.PlayfieldCenter, parameter.BumperClusterY
	dx, dy := parameter.BumperSpacingX, parameter.BumperSpacingY
	l.Bumpers = []vmath.Vec2F{
		pt(cx, cy-dy),
		pt(cx-dx, cy),
		pt(cx+dx, cy),
		pt(cx, cy+dy),
	}

	// Targets in rows
	for row := 0; row < parameter.TargetRowCount; row++ {
		y := parameter.TargetRowY + float64(row)*parameter.TargetRowGap
		for col := 0; col < parameter.TargetsPerRow; col++ {
			x := cx + float64(col-parameter.TargetsPerRow/2)*parameter.TargetSpacingX
			l.Targets = append(l.Targets, pt(x, y))
		}
	}

	l.Paddles = [2]PaddleSpec{
		{Side: SideLeft, Pivot: pt(parameter.PaddleLeftPivotX, parameter.PaddlePivotY), Rest: cfg.Paddle.LeftRest, Active: cfg.Paddle.LeftActive},
		{Side: SideRight, Pivot: pt(parameter.PaddleRightPivotX, parameter.PaddlePivotY), Rest: cfg.Paddle.RightRest, Active: cfg.Paddle.RightActive},
	}

	return l
}

// Validate checks that every passage the ball must use is at least one ball diameter wide,
// that nothing but the lane's own walls reaches into the launch lane,
// that the ball can drain between the paddles, and that the frame encloses the playfield
func (l *Layout) Validate() error {
	d := 2 * l.BallRadius

	frameRight, err := l.edge("wall-left", false)
	if err != nil {
		return err
	}
	inlane, err := l.edge("inlane-left", true)
	if err != nil {
		return err
	}
	kickerGap, err := l.gap("outlane-left", "kicker-left")
	if err != nil {
		return err
	}

	checks := []struct {
		name  string
		width float64
	}{
		{"launch lane", l.Lane.Max.X - l.Lane.Min.X},
		{"curved guide channel", parameter.CurvedGuideRadius - parameter.CurvedGuideInnerRadius - 2*parameter.GuideHalfWidth},
		{"outlane", inlane - frameRight},
		{"inlane", kickerGap},
		{"paddle drain gap", vmath.V2FDist(l.Paddles[0].Tip(l.Paddles[0].Rest), l.Paddles[1].Tip(l.Paddles[1].Rest)) - parameter.PaddleThickness},
		{"bumper spacing", minSpacing(l.Bumpers) - 2*parameter.BumperRadius},
	}
	for _, c := range checks {
		if c.width < d {
			return fmt.Errorf("%s is %.1f wide, ball needs %.1f", c.name, c.width, d)
		}
	}

	for _, w := range l.Walls {
		if w.laneOwned() {
			continue
		}
		if _, hi := w.extent(); hi > l.Lane.Min.X {
			return fmt.Errorf("%s reaches x=%.1f inside launch lane starting at %.1f", w.Name, hi, l.Lane.Min.X)
		}
	}

	if !l.Lane.Contains(l.BallSpawn) {
		return fmt.Errorf("ball spawn %v outside launch lane", l.BallSpawn)
	}
	if l.DrainLine <= l.Height {
		return fmt.Errorf("drain line %.1f not below table bottom %.1f", l.DrainLine, l.Height)
	}
	for _, p := range l.Paddles {
		if p.Pivot.Y >= l.Height {
			return fmt.Errorf("paddle pivot %v below table", p.Pivot)
		}
	}
	return nil
}

func (l *Layout) wall(name string) (WallSpec, error) {
	for _, w := range l.Walls {
		if w.Name == name {
			return w, nil
		}
	}
	return WallSpec{}, fmt.Errorf("layout has no wall %q", name)
}

// edge returns the left (or right) limit of the named wall
func (l *Layout) edge(name string, left bool) (float64, error) {
	w, err := l.wall(name)
	if err != nil {
		return 0, err
	}
	lo, hi := w.extent()
	if left {
		return lo, nil
	}
	return hi, nil
}

// gap returns the clearance between the segments of two named walls, net of their thickness
func (l *Layout) gap(a, b string) (float64, error) {
	wa, err := l.wall(a)
	if err != nil {
		return 0, err
	}
	wb, err := l.wall(b)
	if err != nil {
		return 0, err
	}
	best := math.Inf(1)
	for _, sa := range wa.Shapes {
		for _, sb := range wb.Shapes {
			if sa.Kind != engine.ShapeSegment || sb.Kind != engine.ShapeSegment {
				continue
			}
			a0, a1 := vmath.V2FAdd(wa.Position, sa.A), vmath.V2FAdd(wa.Position, sa.B)
			b0, b1 := vmath.V2FAdd(wb.Position, sb.A), vmath.V2FAdd(wb.Position, sb.B)
			dist := math.Min(
				math.Min(pointSegmentDist(a0, b0, b1), pointSegmentDist(a1, b0, b1)),
				math.Min(pointSegmentDist(b0, a0, a1), pointSegmentDist(b1, a0, a1)),
			)
			best = math.Min(best, dist-sa.Radius-sb.Radius)
		}
	}
	if math.IsInf(best, 1) {
		return 0, fmt.Errorf("walls %q and %q share no segments", a, b)
	}
	return best, nil
}

// pointSegmentDist is the distance from p to segment ab; crossing segments are not expected here
func pointSegmentDist(p, a, b vmath.Vec2F) float64 {
	ab := vmath.V2FSub(b, a)
	t := 0.0
	if ll := vmath.V2FMagSq(ab); ll > 0 {
		t = vmath.ClampF(vmath.V2FDot(vmath.V2FSub(p, a), ab)/ll, 0, 1)
	}
	return vmath.V2FDist(p, vmath.V2FAdd(a, vmath.V2FScale(ab, t)))
}

func minSpacing(points []vmath.Vec2F) float64 {
	best := math.Inf(1)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			best = math.Min(best, vmath.V2FDist(points[i], points[j]))
		}
	}
	return best
}

func segmentWall(name string, a, b vmath.Vec2F, radius float64, m engine.Material) WallSpec {
	return WallSpec{Name: name, Shapes: []engine.Shape{engine.Segment(a, b, radius)}, Material: m}
}

// arc approximates a circular arc from angle a0 to a1 (y-down) with a chain of segments
func arc(center vmath.Vec2F, r, a0, a1, radius float64) []engine.Shape {
	n := parameter.CurvedGuideChords
	shapes := make([]engine.Shape, 0, n)
	prev := vmath.V2FAdd(center, vmath.V2F(r*math.Cos(a0), r*math.Sin(a0)))
	for i := 1; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		next := vmath.V2FAdd(center, vmath.V2F(r*math.Cos(a), r*math.Sin(a)))
		shapes = append(shapes, engine.Segment(prev, next, radius))
		prev = next
	}
	return shapes
}
