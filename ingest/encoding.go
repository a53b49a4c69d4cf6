package ingest

import (
	"io"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// DecodeReader wraps r so that its bytes come out as UTF-8. Some legacy
// vhosts still write Latin-1 access logs; those need decoding before the
// line grammar sees them. Unknown encodings fall through to the raw reader.
func DecodeReader(r io.Reader, encoding string) io.Reader {
	switch encoding {
	case "latin-1", "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return r
	}
}
