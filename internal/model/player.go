package model

// Player carries the kinematic and progression state the simulation core
// reads. Movement and input handling live outside the core; the lifecycle
// controller only repositions the player on zone load.
type Player struct {
	Pos   Vec2
	Vel   Vec2
	Level int
}

// Camera tracks the rendered view. Pos is the current interpolated top-left
// offset; Target is where the interpolation is heading. Spawn evaluation
// uses Target, not Pos, so fast camera pans cannot delay spawns behind the
// interpolation.
type Camera struct {
	Pos    Vec2
	Target Vec2
}

// SnapTo centers both the current and target offsets on a world point,
// eliminating interpolation lag after a zone load.
func (c *Camera) SnapTo(center Vec2, viewW, viewH float64) {
	c.Target = Vec2{center.X - viewW/2, center.Y - viewH/2}
	c.Pos = c.Target
}
