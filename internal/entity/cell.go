package entity

import (
	"errors"
	"fmt"
)

type CellKind uint8

const (
	KindEmpty CellKind = iota
	KindBorder
	KindSegment
)

// Glyph is the display category of a cell. Rendering itself lives outside the engine.
type Glyph rune

const (
	GlyphUnopened Glyph = ' '
	GlyphMiss     Glyph = '·'
	GlyphHit      Glyph = 'X'
	GlyphRevealed Glyph = '*'
	GlyphShip     Glyph = '▨'
)

type HitResult uint8

const (
	Miss HitResult = iota
	Hit
)

var ErrUnknownHitResult = errors.New("unknown hit result")

func (that HitResult) String() string {
	if that == Hit {
		return "hit"
	}
	return "miss"
}

func (that HitResult) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *HitResult) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hit":
		*that = Hit
	case "miss":
		*that = Miss
	default:
		return fmt.Errorf("%w: %q", ErrUnknownHitResult, text)
	}
	return nil
}

// Coord is a zero-based grid position, X is the column and Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is a single grid position. ShipID and Index are meaningful for segments only.
type Cell struct {
	Kind     CellKind `json:"kind"`
	ShipID   int      `json:"ship_id,omitempty"`
	Index    int      `json:"index,omitempty"`
	Opened   bool     `json:"opened,omitempty"`
	Revealed bool     `json:"revealed,omitempty"`
}

// open marks the cell opened and reports whether a ship segment was struck.
func (that *Cell) open() bool {
	that.Opened = true
	return that.Kind == KindSegment
}

// reveal marks a border cell as guaranteed empty after the neighbouring ship sank.
func (that *Cell) reveal() {
	that.Opened = true
	that.Revealed = true
}

func (that *Cell) IsOpened() bool {
	return that.Opened
}

// OccupiesSpace is used by the placer only.
func (that *Cell) OccupiesSpace() bool {
	return that.Kind == KindBorder || that.Kind == KindSegment
}

func (that *Cell) Glyph(hidden bool) Glyph {
	switch {
	case that.Kind == KindSegment && that.Opened:
		return GlyphHit
	case that.Kind == KindSegment && !hidden:
		return GlyphShip
	case that.Revealed:
		return GlyphRevealed
	case that.Opened:
		return GlyphMiss
	default:
		return GlyphUnopened
	}
}
