package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// TextNormalizerService repairs text that arrived double-encoded: UTF-8 bytes
// that were read as Latin-1 somewhere along the way ("à¤¶à¥‰à¤ª" instead of
// "शॉप"). Normalize is best-effort and never fails; text it cannot repair is
// passed through unchanged.
type TextNormalizerService interface {
	Normalize(text string) string
}

type textNormalizerServiceImpl struct{}

func NewTextNormalizerService() TextNormalizerService {
	return &textNormalizerServiceImpl{}
}

func (s *textNormalizerServiceImpl) Normalize(text string) string {
	if text == "" {
		return text
	}
	// Text already starting in the Devanagari block is taken as canonical.
	if first, _ := utf8.DecodeRuneInString(text); first >= 0x0900 && first <= 0x097F {
		return text
	}

	repaired, err := repairDoubleEncoding(text)
	if err != nil {
		log.Warn().Err(err).Str("text", text).Msg("UTF-8 repair failed, passing text through")
		return text
	}
	return repaired
}

// repairDoubleEncoding reinterprets the string's code points as Latin-1 bytes
// and decodes the result as UTF-8. Code points above U+00FF mean the text was
// never Latin-1-mangled, and an invalid UTF-8 result means the reading was
// wrong; both cases are errors so the caller keeps the original.
func repairDoubleEncoding(text string) (string, error) {
	raw := make([]byte, 0, len(text))
	for _, r := range text {
		if r > 0xFF {
			return "", fmt.Errorf("code point %U outside Latin-1 range", r)
		}
		raw = append(raw, byte(r))
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("reinterpreted bytes are not valid UTF-8")
	}
	return string(raw), nil
}
