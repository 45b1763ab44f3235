package textweave

import (
	"github.com/dshills/textweave/internal/compose"
	"github.com/dshills/textweave/internal/geom"
)

// Offset is a signed translation between chunk origins.
// Re-exported from the geom package.
type Offset = geom.Offset

// Position is a nonnegative cell coordinate inside a chunk.
// Re-exported from the geom package.
type Position = geom.Position

// Size is a nonnegative chunk extent.
// Re-exported from the geom package.
type Size = geom.Size

// Direction names the side of a chunk that receives another chunk.
// Re-exported from the compose package.
type Direction = compose.Direction

// Sides for Slap and Stack.
const (
	DirLeft   = compose.DirLeft
	DirRight  = compose.DirRight
	DirTop    = compose.DirTop
	DirBottom = compose.DirBottom
)

// Alignment selects where along the perpendicular axis two slapped chunks
// line up. Re-exported from the compose package.
type Alignment = compose.Alignment

// Alignments for Slap and Stack.
const (
	AlignClose  = compose.AlignClose
	AlignCenter = compose.AlignCenter
	AlignFar    = compose.AlignFar
)
