package hud

import (
	"strconv"
	"strings"

	"github.com/zeusync/friendfinder/internal/core/geometry"
)

// Color names a host text colour. Styling itself is left to the host.
type Color string

const (
	White       Color = "white"
	Aqua        Color = "aqua"
	Yellow      Color = "yellow"
	Green       Color = "green"
	LightPurple Color = "light_purple"
	Red         Color = "red"
	Gold        Color = "gold"
	Gray        Color = "gray"
)

var knownColors = map[Color]struct{}{
	White: {}, Aqua: {}, Yellow: {}, Green: {}, LightPurple: {}, Red: {}, Gold: {}, Gray: {},
}

// Valid reports whether the host knows the colour.
func (c Color) Valid() bool {
	_, ok := knownColors[c]
	return ok
}

// Palette assigns colours to the fields of the HUD line and to notices.
type Palette struct {
	Name     Color `yaml:"name" json:"name"`
	Angle    Color `yaml:"angle" json:"angle"`
	Distance Color `yaml:"distance" json:"distance"`
	Height   Color `yaml:"height" json:"height"`
	Warning  Color `yaml:"warning" json:"warning"`
	Notice   Color `yaml:"notice" json:"notice"`
	Tracking Color `yaml:"tracking" json:"tracking"`
}

func DefaultPalette() Palette {
	return Palette{
		Name:     Aqua,
		Angle:    Yellow,
		Distance: Green,
		Height:   LightPurple,
		Warning:  Red,
		Notice:   Yellow,
		Tracking: Green,
	}
}

// Segment is one independently coloured piece of a line.
type Segment struct {
	Text  string `json:"text"`
	Color Color  `json:"color"`
}

// Line is a single overlay line. The zero value is the empty line that clears
// previously shown text.
type Line struct {
	Segments []Segment `json:"segments"`
}

func (l Line) IsEmpty() bool {
	return len(l.Segments) == 0
}

// String joins the segment texts with single spaces.
func (l Line) String() string {
	parts := make([]string, len(l.Segments))
	for i, s := range l.Segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

// Clear returns the empty line.
func Clear() Line {
	return Line{}
}

// Notice returns a one-segment line such as "Added waypoint: Chest".
func Notice(text string, color Color) Line {
	return Line{Segments: []Segment{{Text: text, Color: color}}}
}

// NoTarget is shown when the target list is empty.
func NoTarget(p Palette) Line {
	return Notice("No target selected", p.Warning)
}

// FormatBearing renders name, bearing, distance and optional height.
func FormatBearing(name string, b geometry.Bearing, p Palette) Line {
	segments := make([]Segment, 0, 4)
	segments = append(segments, Segment{Text: name, Color: p.Name})

	if b.SameBlock {
		segments = append(segments,
			Segment{Text: "0°", Color: p.Angle},
			Segment{Text: "0", Color: p.Distance},
		)
		return Line{Segments: segments}
	}

	segments = append(segments,
		Segment{Text: formatAngle(b.Angle), Color: p.Angle},
		Segment{Text: formatDistance(b.Distance), Color: p.Distance},
	)
	if !b.SameHeight {
		segments = append(segments, Segment{Text: formatHeight(b.Height, b.HeightSign), Color: p.Height})
	}
	return Line{Segments: segments}
}

func formatAngle(angle int) string {
	if angle == 0 {
		return "0°"
	}
	return strconv.Itoa(angle) + "°"
}

// The leading minus is a display convention for every non-zero distance,
// not a sign.
func formatDistance(distance int) string {
	if distance == 0 {
		return "0"
	}
	return "-" + strconv.Itoa(distance)
}

func formatHeight(height int, sign byte) string {
	if height == 0 {
		return "0"
	}
	return string(sign) + strconv.Itoa(height)
}
