package analysis

import (
	"strings"

	"github.com/san-kum/magpend/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds two state components of a trajectory.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait projects recorded states onto components xIdx and yIdx.
// Indices 0..2 are position, 3..5 velocity.
func NewPhasePortrait(states []dynamo.State, xIdx, yIdx int) *PhasePortrait2D {
	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(states)),
	}
	if xIdx < 0 || yIdx < 0 {
		return portrait
	}
	for _, x := range states {
		if xIdx >= len(x) || yIdx >= len(x) || !x.IsValid() {
			continue
		}
		portrait.Points = append(portrait.Points, Point{X: x[xIdx], Y: x[yIdx]})
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes, where they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records components recordX and recordY each time
// component crossIdx crosses threshold going upward.
func PoincareSection(states []dynamo.State, crossIdx int, threshold float64, recordX, recordY int) *PhasePortrait2D {
	section := &PhasePortrait2D{XIndex: recordX, YIndex: recordY, Points: make([]Point, 0)}
	if crossIdx < 0 || recordX < 0 || recordY < 0 {
		return section
	}
	for i := 1; i < len(states); i++ {
		prev, curr := states[i-1], states[i]
		if crossIdx >= len(curr) || recordX >= len(curr) || recordY >= len(curr) || crossIdx >= len(prev) {
			continue
		}
		if prev[crossIdx] < threshold && curr[crossIdx] >= threshold {
			section.Points = append(section.Points, Point{X: curr[recordX], Y: curr[recordY]})
		}
	}
	return section
}
