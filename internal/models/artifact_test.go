package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArtifact(t *testing.T) {
	logo, err := ParseArtifact("logo")
	require.NoError(t, err)
	assert.True(t, logo.IsLogo())
	assert.Equal(t, LogoSentinel, logo.String())
	assert.Empty(t, logo.DataURL())

	bmp, err := ParseArtifact("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.False(t, bmp.IsLogo())
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", bmp.DataURL())

	for _, raw := range []string{"", "   ", "logo.png", "aGVsbG8="} {
		_, err := ParseArtifact(raw)
		require.ErrorIs(t, err, ErrInvalidArtifact, "raw=%q", raw)
	}
}

func TestArtifactZero(t *testing.T) {
	var a SignatureArtifact
	assert.True(t, a.IsZero())
	assert.False(t, CompanyLogoArtifact().IsZero())
	assert.False(t, BitmapArtifact("data:image/png;base64,eA==").IsZero())
}
