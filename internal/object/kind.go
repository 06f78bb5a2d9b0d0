package object

import (
	"fmt"
	"strings"

	"github.com/tomz197/faceslice/internal/draw"
)

// Kind tags a falling object. The set is closed: every edible kind plus the hazard.
type Kind uint8

const (
	KindMango Kind = iota
	KindApple
	KindBanana
	KindBomb
	kindCount
)

// NumKinds is the number of distinct kinds.
const NumKinds = int(kindCount)

// Shape selects how a kind's sprite is drawn.
type Shape uint8

const (
	ShapeOval Shape = iota
	ShapeRound
	ShapeCrescent
	ShapeBomb
)

// Sprite is the procedural look of a kind.
type Sprite struct {
	Shape  Shape
	Body   draw.Color
	Accent draw.Color
}

var kindNames = [kindCount]string{
	KindMango:  "mango",
	KindApple:  "apple",
	KindBanana: "banana",
	KindBomb:   "bomb",
}

var kindSprites = [kindCount]Sprite{
	KindMango:  {Shape: ShapeOval, Body: draw.ColorAmber, Accent: draw.ColorLeaf},
	KindApple:  {Shape: ShapeRound, Body: draw.ColorRed, Accent: draw.ColorLeaf},
	KindBanana: {Shape: ShapeCrescent, Body: draw.ColorYellow, Accent: draw.ColorOrange},
	KindBomb:   {Shape: ShapeBomb, Body: draw.ColorSteel, Accent: draw.ColorSpark},
}

// AllKinds returns every kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k < kindCount
}

// IsHazard reports whether cutting k always ends the game.
func (k Kind) IsHazard() bool {
	return k == KindBomb
}

// Sprite returns the kind's drawing style.
func (k Kind) Sprite() Sprite {
	if !k.Valid() {
		return Sprite{Shape: ShapeRound, Body: draw.ColorSoftWhite}
	}
	return kindSprites[k]
}

// ParseKind resolves a kind by name, case-insensitively.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", name)
}
