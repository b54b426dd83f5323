package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRepairsDoubleEncodedDevanagari(t *testing.T) {
	n := NewTextNormalizerService()
	assert.Equal(t, "शॉप", n.Normalize("à¤¶à¥à¤ª"))
}

func TestNormalizePassesThroughDevanagari(t *testing.T) {
	n := NewTextNormalizerService()
	text := "दुकानाचा फोटो"
	assert.Equal(t, text, n.Normalize(text))
}

func TestNormalizePassesThroughIrreparableText(t *testing.T) {
	n := NewTextNormalizerService()
	// Contains a code point above U+00FF but does not start in the
	// Devanagari block, so repair is attempted and must bail out.
	text := "shop — दुकान"
	assert.Equal(t, text, n.Normalize(text))
}

func TestNormalizeAsciiIsIdentity(t *testing.T) {
	n := NewTextNormalizerService()
	for _, text := range []string{"", "Shutter - Size", "plain answer", "123"} {
		assert.Equal(t, text, n.Normalize(text))
	}
}

func TestNormalizeLatin1LookalikeStaysValid(t *testing.T) {
	n := NewTextNormalizerService()
	// A single Latin-1 byte is not valid UTF-8 on its own, so the original
	// is kept.
	assert.Equal(t, "café", n.Normalize("café"))
}
