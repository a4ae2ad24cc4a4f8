package models

import (
	"errors"
	"strings"
)

// LogoSentinel is the wire value stored in assinatura_cliente (and in
// assinatura_padrao) when the signature is the company logo stamp rather
// than image bytes. Renderers must branch on it and never try to decode it.
const LogoSentinel = "logo"

const (
	TipoAssinaturaDraw  = "draw"
	TipoAssinaturaType  = "type"
	TipoAssinaturaStamp = "stamp"
)

var ErrInvalidArtifact = errors.New("invalid signature artifact")

type artifactKind int

const (
	artifactBitmap artifactKind = iota
	artifactCompanyLogo
)

// SignatureArtifact is the tagged variant behind the assinatura_cliente
// column: either an encoded bitmap (PNG data URL) or a reference to the
// company logo.
type SignatureArtifact struct {
	kind artifactKind
	data string
}

func BitmapArtifact(dataURL string) SignatureArtifact {
	return SignatureArtifact{kind: artifactBitmap, data: dataURL}
}

func CompanyLogoArtifact() SignatureArtifact {
	return SignatureArtifact{kind: artifactCompanyLogo}
}

// ParseArtifact validates a wire value coming from a client or a stored row.
func ParseArtifact(raw string) (SignatureArtifact, error) {
	raw = strings.TrimSpace(raw)
	if raw == LogoSentinel {
		return CompanyLogoArtifact(), nil
	}
	if strings.HasPrefix(raw, "data:image/") {
		return BitmapArtifact(raw), nil
	}
	return SignatureArtifact{}, ErrInvalidArtifact
}

func (a SignatureArtifact) IsLogo() bool { return a.kind == artifactCompanyLogo }

func (a SignatureArtifact) IsZero() bool { return a.kind == artifactBitmap && a.data == "" }

// DataURL returns the encoded bitmap, or "" for the logo variant.
func (a SignatureArtifact) DataURL() string {
	if a.kind == artifactCompanyLogo {
		return ""
	}
	return a.data
}

// String is the wire form persisted in assinatura_cliente.
func (a SignatureArtifact) String() string {
	if a.kind == artifactCompanyLogo {
		return LogoSentinel
	}
	return a.data
}
