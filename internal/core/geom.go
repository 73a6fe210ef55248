// Package core holds the device-level value types shared by the game
// logic and its front ends: grid vectors, pixels and buttons.
package core

// Vec2 is a grid position or velocity. Y grows upwards.
type Vec2 struct {
	X, Y int
}

func V(x, y int) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Relative returns the neighbouring cell (dx, dy) away.
func (v Vec2) Relative(dx, dy int) Vec2 {
	return v.Add(Vec2{X: dx, Y: dy})
}

// Clamp pins val into [lo, hi]. When the range is empty (hi < lo),
// lo is returned, which keeps a viewport wider than the world anchored
// at the origin.
func Clamp(val, lo, hi int) int {
	return max(lo, min(val, hi))
}
