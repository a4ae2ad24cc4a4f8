package signature

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

// The capture surface is fixed so drawn, typed and stamped signatures all
// yield structurally identical artifacts.
const (
	PadWidth  = 500
	PadHeight = 200

	strokeRadius = 1 // 2px stroke, round caps
)

// Point is one sampled pointer position, in pad coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pad is the freehand capture surface. Strokes are painted onto a
// transparent raster; Encode serializes it to a portable PNG data URL.
type Pad struct {
	img  *image.RGBA
	last Point
	down bool
}

func NewPad() *Pad {
	return &Pad{img: image.NewRGBA(image.Rect(0, 0, PadWidth, PadHeight))}
}

// MoveTo starts a stroke without painting.
func (p *Pad) MoveTo(pt Point) {
	p.last = pt
	p.down = true
	p.dot(pt)
}

// LineTo paints a segment from the previous position. A LineTo without a
// preceding MoveTo starts a new stroke.
func (p *Pad) LineTo(pt Point) {
	if !p.down {
		p.MoveTo(pt)
		return
	}
	drawSegment(p.img, p.last, pt)
	p.last = pt
}

// End lifts the pointer.
func (p *Pad) End() { p.down = false }

// Stroke paints a whole polyline in one call.
func (p *Pad) Stroke(pts []Point) {
	if len(pts) == 0 {
		return
	}
	p.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		p.LineTo(pt)
	}
	p.End()
}

// Clear resets the surface.
func (p *Pad) Clear() {
	p.img = image.NewRGBA(image.Rect(0, 0, PadWidth, PadHeight))
	p.down = false
}

// Empty reports whether nothing has been painted since the last Clear.
func (p *Pad) Empty() bool {
	return isBlank(p.img)
}

// Encode serializes the raster to the bitmap artifact consumed by the
// document lifecycle.
func (p *Pad) Encode() (models.SignatureArtifact, error) {
	if p.Empty() {
		return models.SignatureArtifact{}, models.ErrInvalidArtifact
	}
	return encodePNG(p.img)
}

func (p *Pad) dot(pt Point) {
	fillCircle(p.img, pt.X, pt.Y, strokeRadius)
}

func drawSegment(img *image.RGBA, a, b Point) {
	// Bresenham with a round brush at each step.
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		fillCircle(img, x, y, strokeRadius)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int) {
	ink := color.RGBA{A: 255}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				x, y := cx+dx, cy+dy
				if image.Pt(x, y).In(img.Rect) {
					img.SetRGBA(x, y, ink)
				}
			}
		}
	}
}

func isBlank(img *image.RGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

func encodePNG(img image.Image) (models.SignatureArtifact, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return models.SignatureArtifact{}, err
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return models.BitmapArtifact(dataURL), nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
