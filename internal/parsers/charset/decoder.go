package charset

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding represents a text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingISO88591    Encoding = "iso-8859-1"
)

// DetectEncoding detects the encoding of a byte buffer.
// Dealer exports are either UTF-8 or Windows-1252; anything that is
// not valid UTF-8 is treated as Windows-1252
func DetectEncoding(data []byte) Encoding {
	// Check for UTF-8 BOM
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return EncodingUTF8
	}

	if utf8.Valid(data) {
		return EncodingUTF8
	}

	return EncodingWindows1252
}

// Decode converts a byte buffer from the specified encoding to UTF-8 string
func Decode(data []byte, enc Encoding) (string, error) {
	// Strip UTF-8 BOM if present
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	// If the data is already valid UTF-8, return it directly regardless of
	// the requested encoding. This prevents double-decoding when a sheet is
	// labeled windows-1252 but was actually exported as UTF-8
	if utf8.Valid(data) {
		return string(data), nil
	}

	switch enc {
	case EncodingISO88591:
		return decodeCharmap(data, charmap.ISO8859_1)
	default:
		return decodeCharmap(data, charmap.Windows1252)
	}
}

// decodeCharmap decodes single-byte encoded bytes to UTF-8
func decodeCharmap(data []byte, cm *charmap.Charmap) (string, error) {
	reader := transform.NewReader(strings.NewReader(string(data)), cm.NewDecoder())
	result, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// ToUTF8Reader wraps a reader with a decoder to convert to UTF-8
func ToUTF8Reader(r io.Reader, enc Encoding) (io.Reader, error) {
	var decoder encoding.Encoding

	switch enc {
	case EncodingWindows1252:
		decoder = charmap.Windows1252
	case EncodingISO88591:
		decoder = charmap.ISO8859_1
	default:
		return r, nil
	}

	return transform.NewReader(r, decoder.NewDecoder()), nil
}
