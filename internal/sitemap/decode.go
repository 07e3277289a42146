package sitemap

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeStrategy is one attempt at turning a response body into parseable
// XML bytes. Strategies are tried in order; the first whose output parses
// wins. Publishers serve sitemaps in enough broken ways that this chain is
// load-bearing, so it stays explicit and individually testable.
type decodeStrategy struct {
	name string
	fn   func(body []byte) ([]byte, error)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var encodingDecl = regexp.MustCompile(`(?i)encoding=["'][^"']*["']`)

// decodeStrategies is the ordered chain: transport-decoded bytes as-is,
// strict UTF-8, Latin-1 transcode, manual gzip decompression.
var decodeStrategies = []decodeStrategy{
	{name: "transport", fn: asTransport},
	{name: "utf-8", fn: asUTF8},
	{name: "latin-1", fn: asLatin1},
	{name: "gzip", fn: asGzip},
}

func asTransport(body []byte) ([]byte, error) {
	return body, nil
}

func asUTF8(body []byte) ([]byte, error) {
	body = bytes.TrimPrefix(body, utf8BOM)
	if !utf8.Valid(body) {
		return nil, fmt.Errorf("body is not valid utf-8")
	}
	return body, nil
}

// asLatin1 transcodes ISO-8859-1 bytes to UTF-8 and rewrites any encoding
// declaration so the XML parser does not reject the transcoded document.
func asLatin1(body []byte) ([]byte, error) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		return nil, fmt.Errorf("latin-1 transcode: %w", err)
	}
	if idx := bytes.Index(decoded, []byte("?>")); idx > 0 && idx < 128 {
		decl := encodingDecl.ReplaceAll(decoded[:idx], []byte(`encoding="UTF-8"`))
		decoded = append(decl, decoded[idx:]...)
	}
	return decoded, nil
}

// asGzip handles .xml.gz payloads served without a Content-Encoding header,
// which the transport layer leaves compressed.
func asGzip(body []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer zr.Close()
	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return bytes.TrimPrefix(decompressed, utf8BOM), nil
}

// decodeAndParse walks the strategy chain and returns the first document
// that both decodes and parses, along with the winning strategy name.
func decodeAndParse(body []byte) (document, string, error) {
	var lastErr error
	for _, strategy := range decodeStrategies {
		decoded, err := strategy.fn(body)
		if err != nil {
			lastErr = err
			continue
		}
		doc, err := parseDocument(decoded)
		if err != nil {
			lastErr = err
			continue
		}
		return doc, strategy.name, nil
	}
	return document{}, "", fmt.Errorf("all decode strategies failed: %w", lastErr)
}
