package ui2d

// Rect is an axis-aligned rectangle in screen points, origin top-left.
type Rect struct {
	X, Y, W, H float32
}

// Quad is a filled rectangle.
type Quad struct {
	Rect  Rect
	Color Color
}

// floatsPerVertex is pos(3) + color(4).
const floatsPerVertex = 7

// Batch accumulates solid quads as triangle vertices.
type Batch struct {
	vertices []float32
}

// Reset empties the batch, keeping its storage.
func (b *Batch) Reset() {
	b.vertices = b.vertices[:0]
}

// Add appends a quad. Fully transparent or empty quads are skipped.
func (b *Batch) Add(q Quad) {
	r, c := q.Rect, q.Color
	if c.A <= 0 || r.W <= 0 || r.H <= 0 {
		return
	}
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	b.vertices = append(b.vertices,
		x0, y0, 0, c.R, c.G, c.B, c.A,
		x1, y0, 0, c.R, c.G, c.B, c.A,
		x1, y1, 0, c.R, c.G, c.B, c.A,

		x0, y0, 0, c.R, c.G, c.B, c.A,
		x1, y1, 0, c.R, c.G, c.B, c.A,
		x0, y1, 0, c.R, c.G, c.B, c.A,
	)
}

// AddAll appends every quad in order.
func (b *Batch) AddAll(qs []Quad) {
	for _, q := range qs {
		b.Add(q)
	}
}

// VertexCount returns the number of vertices queued.
func (b *Batch) VertexCount() int {
	return len(b.vertices) / floatsPerVertex
}
