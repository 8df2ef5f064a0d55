package core

// encoding.go converts uploads to text and serializer output back to bytes.
//
// Input files usually come from spreadsheet exports on Windows and are
// single-byte Western European. Browsers decode the "ISO-8859-1" label as
// Windows-1252, so that is the single-byte default. Auto detection picks
// UTF-8 for a BOM or for bytes that are valid UTF-8, and Windows-1252 for
// everything else. A UTF-16 byte order mark overrides the configured
// encoding.

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Encoding names a character encoding used for input or output.
type Encoding string

const (
	EncodingAuto        Encoding = "auto"
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"

	// EncodingUTF16 is only reported by Decode; it is never configured.
	EncodingUTF16 Encoding = "utf-16"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// ParseEncoding maps a configuration value to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	case "iso-8859-1", "latin1", "latin-1":
		return EncodingISO88591, nil
	default:
		return "", fmt.Errorf("unknown encoding %q", s)
	}
}

func (e Encoding) charmap() *charmap.Charmap {
	switch e {
	case EncodingWindows1252:
		return charmap.Windows1252
	case EncodingISO88591:
		return charmap.ISO8859_1
	default:
		return nil
	}
}

// Decode turns raw file bytes into text and reports the encoding it used.
//
// A leading UTF-8 BOM is always removed. With compose set, UTF-8 input is
// brought to NFC so decomposed accents become single runes.
func Decode(raw []byte, enc Encoding, compose bool) (string, Encoding, error) {
	if bytes.HasPrefix(raw, utf16LEBOM) || bytes.HasPrefix(raw, utf16BEBOM) {
		return decodeUTF16(raw, compose)
	}

	hasBOM := bytes.HasPrefix(raw, utf8BOM)
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if enc == EncodingAuto {
		enc = EncodingWindows1252
		if hasBOM || utf8.Valid(raw) {
			enc = EncodingUTF8
		}
	}

	if enc == EncodingUTF8 {
		text := string(raw)
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, string(utf8.RuneError))
		}
		if compose {
			text = norm.NFC.String(text)
		}
		return text, enc, nil
	}

	cm := enc.charmap()
	if cm == nil {
		return "", enc, fmt.Errorf("decode: unsupported encoding %q", enc)
	}
	out, _, err := transform.Bytes(cm.NewDecoder(), raw)
	if err != nil {
		return "", enc, fmt.Errorf("decode %s: %w", enc, err)
	}
	return string(out), enc, nil
}

// decodeUTF16 decodes raw using its byte order mark, which is removed.
func decodeUTF16(raw []byte, compose bool) (string, Encoding, error) {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", EncodingUTF16, fmt.Errorf("decode %s: %w", EncodingUTF16, err)
	}
	text := string(out)
	if compose {
		text = norm.NFC.String(text)
	}
	return text, EncodingUTF16, nil
}

// Encode converts text into the requested output encoding and returns the
// charset label to declare alongside it. Runes the target charset cannot
// represent are written as '?'.
func Encode(text string, enc Encoding) ([]byte, string, error) {
	if enc == EncodingAuto || enc == EncodingUTF8 {
		return []byte(text), string(EncodingUTF8), nil
	}

	cm := enc.charmap()
	if cm == nil {
		return nil, "", fmt.Errorf("encode: unsupported encoding %q", enc)
	}

	replace := runes.Map(func(r rune) rune {
		if _, ok := cm.EncodeRune(r); !ok {
			return '?'
		}
		return r
	})
	out, _, err := transform.Bytes(transform.Chain(replace, cm.NewEncoder()), []byte(text))
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", enc, err)
	}
	return out, string(enc), nil
}
