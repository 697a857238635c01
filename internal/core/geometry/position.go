package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Dimension identifies a world/dimension, e.g. "minecraft:overworld".
type Dimension string

const (
	Overworld Dimension = "minecraft:overworld"
	Nether    Dimension = "minecraft:the_nether"
	End       Dimension = "minecraft:the_end"
)

// BlockPos is an integer lattice coordinate of a block.
type BlockPos struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// Center returns the world-space centre of the block.
func (p BlockPos) Center() mgl64.Vec3 {
	return mgl64.Vec3{float64(p.X) + 0.5, float64(p.Y) + 0.5, float64(p.Z) + 0.5}
}

func (p BlockPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// Block is the host's view of a block type at some coordinate.
type Block struct {
	// ID is the type identifier used for equality, e.g. "minecraft:chest".
	ID string `json:"id"`
	// Name is the human readable type name, e.g. "Chest".
	Name string `json:"name"`
	Air  bool   `json:"air,omitempty"`
}

// Air is the block reported for empty space.
var Air = Block{ID: "minecraft:air", Name: "Air", Air: true}

func (b Block) IsAir() bool {
	return b.Air
}

// SameType reports whether both blocks carry the same type identifier.
func (b Block) SameType(other Block) bool {
	return b.ID == other.ID
}

// World answers block state queries. ok is false when the coordinate is not
// loaded and its state is unknown.
type World interface {
	BlockAt(dim Dimension, pos BlockPos) (block Block, ok bool)
}

// WorldFunc adapts a function to the World interface.
type WorldFunc func(dim Dimension, pos BlockPos) (Block, bool)

func (f WorldFunc) BlockAt(dim Dimension, pos BlockPos) (Block, bool) {
	return f(dim, pos)
}
