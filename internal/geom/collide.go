package geom

// Size is an axis-aligned extent.
type Size struct {
	W float64 `msgpack:"w"`
	H float64 `msgpack:"h"`
}

// Radius is the collision radius used for every entity: half the larger side.
func (s Size) Radius() float64 {
	if s.W > s.H {
		return s.W / 2
	}
	return s.H / 2
}

// Rect is an AABB anchored at its top-left corner.
type Rect struct {
	Min  Vec2 `msgpack:"min"`
	Size Size `msgpack:"size"`
}

func (r Rect) Max() Vec2    { return Vec2{r.Min.X + r.Size.W, r.Min.Y + r.Size.H} }
func (r Rect) Center() Vec2 { return Vec2{r.Min.X + r.Size.W/2, r.Min.Y + r.Size.H/2} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X <= max.X && p.Y >= r.Min.Y && p.Y <= max.Y
}

// OverlapsWithMargin reports whether r, grown by margin on its far edges,
// overlaps o. Used for rejection sampling of obstacle placements.
func (r Rect) OverlapsWithMargin(o Rect, margin float64) bool {
	return r.Min.X < o.Min.X+o.Size.W+margin &&
		r.Min.X+r.Size.W+margin > o.Min.X &&
		r.Min.Y < o.Min.Y+o.Size.H+margin &&
		r.Min.Y+r.Size.H+margin > o.Min.Y
}

// CirclesOverlap is true iff the centers are no farther apart than ra+rb.
func CirclesOverlap(a Vec2, ra float64, b Vec2, rb float64) bool {
	min := ra + rb
	return a.DistSq(b) <= min*min
}

// ClosestPoint returns the point of r nearest to p.
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return p.Clamp(r.Min, r.Max())
}

// PushOut returns the displacement that moves a circle at c with radius out of r,
// and false when they do not overlap. A center lying inside the box pushes
// straight up by the full radius.
func (r Rect) PushOut(c Vec2, radius float64) (Vec2, bool) {
	d := c.Sub(r.ClosestPoint(c))
	distSq := d.LenSq()
	if distSq == 0 {
		return Vec2{0, -radius}, true
	}
	if distSq >= radius*radius {
		return Vec2{}, false
	}
	n, dist := d.Normalize()
	return n.Scale(radius - dist), true
}
