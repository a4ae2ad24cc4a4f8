package signature

import (
	"image"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

const typedScale = 4

// Typed renders the entered name onto the standard capture surface and
// serializes it exactly like a drawn signature. The glyphs are rendered at
// base size and scaled up so the result fills the pad like a script
// signature would.
func Typed(nome string) (models.SignatureArtifact, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return models.SignatureArtifact{}, models.ErrInvalidArtifact
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, nome).Ceil()
	if width == 0 {
		return models.SignatureArtifact{}, models.ErrInvalidArtifact
	}
	height := face.Metrics().Height.Ceil()

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  small,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(nome)

	pad := image.NewRGBA(image.Rect(0, 0, PadWidth, PadHeight))
	dw, dh := width*typedScale, height*typedScale
	if dw > PadWidth {
		dh = dh * PadWidth / dw
		dw = PadWidth
	}
	x0 := (PadWidth - dw) / 2
	y0 := (PadHeight - dh) / 2
	dst := image.Rect(x0, y0, x0+dw, y0+dh)
	draw.NearestNeighbor.Scale(pad, dst, small, small.Bounds(), draw.Over, nil)

	return encodePNG(pad)
}
