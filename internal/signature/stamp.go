package signature

import (
	"errors"
	"strings"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

// ErrNoLogo is returned when a stamp signature is requested before a company
// logo was uploaded.
var ErrNoLogo = errors.New("nenhum logo cadastrado para usar como carimbo")

// Stamp reuses the company logo already on file. The stored artifact is the
// "logo" sentinel, never the image bytes; renderers resolve it against the
// company profile's logo URL.
func Stamp(logoURL string) (models.SignatureArtifact, error) {
	if strings.TrimSpace(logoURL) == "" {
		return models.SignatureArtifact{}, ErrNoLogo
	}
	return models.CompanyLogoArtifact(), nil
}
