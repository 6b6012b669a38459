// Package encoding turns text of unknown charset into UTF-8. Seed files and
// PDF text layers written by older tools are often Windows-1252 or carry a
// byte order mark.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	textenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

var replacement = []byte("\uFFFD")

// Charset names a detected source encoding.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF8BOM     Charset = "UTF-8 BOM"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO88599    Charset = "ISO-8859-9"
)

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8BOM},
	{[]byte{0xFF, 0xFE}, UTF16LE},
	{[]byte{0xFE, 0xFF}, UTF16BE},
}

// Detect guesses the charset of sample. A byte order mark wins, then valid
// UTF-8, then chardet's best guess. Anything else is taken as Windows-1252.
func Detect(sample []byte) Charset {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(sample) {
		return UTF8
	}

	if res, err := chardet.NewTextDetector().DetectBest(sample); err == nil {
		switch res.Charset {
		case "UTF-8":
			return UTF8
		case "ISO-8859-9":
			return ISO88599
		}
	}

	return Windows1252
}

func (c Charset) decoder() *textenc.Decoder {
	switch c {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case ISO88599:
		return charmap.ISO8859_9.NewDecoder()
	case Windows1252:
		return charmap.Windows1252.NewDecoder()
	}

	return nil
}

// NewUTF8Reader sniffs the start of r and returns a reader yielding UTF-8
// along with the charset it detected. A UTF-8 BOM is dropped.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	cs := Detect(buf)

	switch cs {
	case UTF8:
		return br, cs, nil
	case UTF8BOM:
		_, _ = br.Discard(3)
		return br, cs, nil
	}

	return transform.NewReader(br, cs.decoder()), cs, nil
}

// String returns b as UTF-8 text, decoding it when it is not UTF-8 already.
// Unlike NewUTF8Reader it considers the whole input, so a stray byte late in
// a long text is not missed.
func String(b []byte) (string, Charset) {
	if utf8.Valid(b) && !bytes.HasPrefix(b, boms[0].prefix) {
		return string(b), UTF8
	}

	sample := b
	if len(sample) > sniffLen && utf8.Valid(sample[:sniffLen]) {
		// the sniffed prefix is clean; look where the invalid bytes are
		sample = b[firstInvalid(b):]
	}

	cs := Detect(sample)
	if cs == UTF8 {
		cs = Windows1252
	}

	if cs == UTF8BOM {
		return string(bytes.ToValidUTF8(b[len(boms[0].prefix):], replacement)), cs
	}

	out, _, err := transform.Bytes(cs.decoder(), b)
	if err != nil {
		return string(bytes.ToValidUTF8(b, replacement)), cs
	}

	return string(out), cs
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}

		i += size
	}

	return 0
}
