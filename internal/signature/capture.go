package signature

import (
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

// CaptureRequest is the wire form shared by the public signing endpoint and
// the default-signature endpoint. Exactly one input applies per tipo: pontos
// for draw, nome for type, the stored company logo for stamp. A client that
// already rendered its own raster may send the encoded artifact directly.
type CaptureRequest struct {
	Tipo     string    `json:"tipo"`
	Pontos   [][]Point `json:"pontos,omitempty"`
	Nome     string    `json:"nome,omitempty"`
	Artifact string    `json:"artifact,omitempty"`
}

// Capture normalizes any of the three modes to one artifact.
func Capture(req CaptureRequest, logoURL string) (models.SignatureArtifact, error) {
	if req.Artifact != "" {
		return models.ParseArtifact(req.Artifact)
	}
	switch req.Tipo {
	case models.TipoAssinaturaDraw:
		pad := NewPad()
		for _, stroke := range req.Pontos {
			pad.Stroke(stroke)
		}
		return pad.Encode()
	case models.TipoAssinaturaType:
		return Typed(req.Nome)
	case models.TipoAssinaturaStamp:
		return Stamp(logoURL)
	default:
		return models.SignatureArtifact{}, models.ErrInvalidArtifact
	}
}
