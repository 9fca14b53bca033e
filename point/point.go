// Package point unifies the local pointer and remote pointers into one list
// of interaction points in raster space.
package point

import (
	"sort"

	"github.com/lixenwraith/hand-sphere/vmath"
)

// Space identifies the coordinate space of a point
type Space uint8

const (
	SpaceLocal      Space = iota // Raster units, used as is
	SpaceNormalized              // [0,1] fractions of the viewport
)

// InteractionPoint is one pointer perturbing the field
type InteractionPoint struct {
	Identity int
	X, Y     float64
	Space    Space
}

// Raster returns the point in raster units for a viewport of w x h
func (p InteractionPoint) Raster(w, h float64) vmath.Vec2 {
	if p.Space == SpaceNormalized {
		return vmath.Vec2{X: p.X * w, Y: p.Y * h}
	}
	return vmath.Vec2{X: p.X, Y: p.Y}
}

// Resolved is a point ready for the force field
type Resolved struct {
	Identity int
	Pos      vmath.Vec2
	Local    bool
}

// Local is the state of the locally driven pointer
// Normalized coordinates are kept alongside raster ones so the outbound
// message never carries raster units
type Local struct {
	Identity int
	Pos      vmath.Vec2 // Raster units
	NX, NY   float64    // Normalized
	Valid    bool
}

// Detect places the local pointer from a normalized detection
func (l *Local) Detect(nx, ny, w, h float64) {
	l.NX, l.NY = nx, ny
	l.Pos = vmath.Vec2{X: nx * w, Y: ny * h}
	l.Valid = true
}

// Lose marks the local pointer as having no current input
func (l *Local) Lose() {
	l.Valid = false
}

// Rescale recomputes raster position after a viewport resize
func (l *Local) Rescale(w, h float64) {
	if l.Valid {
		l.Pos = vmath.Vec2{X: l.NX * w, Y: l.NY * h}
	}
}

// Collect returns the frame's interaction points: the local pointer first
// when valid, then remote points in ascending identity order
func Collect(local Local, remotes map[int]InteractionPoint, w, h float64) []Resolved {
	out := make([]Resolved, 0, len(remotes)+1)
	if local.Valid && local.Pos.IsFinite() {
		out = append(out, Resolved{Identity: local.Identity, Pos: local.Pos, Local: true})
	}

	ids := make([]int, 0, len(remotes))
	for id := range remotes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		pos := remotes[id].Raster(w, h)
		if !pos.IsFinite() {
			continue
		}
		out = append(out, Resolved{Identity: id, Pos: pos})
	}
	return out
}
