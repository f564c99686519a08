// Package wire provides the response encodings offered by the HTTP service
// and picks one from a request's Accept header.
package wire

import (
	"mime"
	"strconv"
	"strings"
)

// Codec encodes and decodes response bodies in one content type.
type Codec interface {
	// ContentType returns the MIME type for this encoding.
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// codecs in preference order. The first entry is the default.
var codecs = []Codec{JSON(), MsgPack(), YAML(), BSON(), XML()}

// aliases maps alternative media types onto a codec's content type.
var aliases = map[string]string{
	"text/json":               "application/json",
	"application/x-msgpack":   "application/msgpack",
	"application/vnd.msgpack": "application/msgpack",
	"application/x-yaml":      "application/yaml",
	"text/yaml":               "application/yaml",
	"text/x-yaml":             "application/yaml",
	"text/xml":                "application/xml",
	"application/vnd.bson":    "application/bson",
}

// Default returns the codec used when the client expresses no preference.
func Default() Codec {
	return codecs[0]
}

// Lookup returns the codec for a media type, accepting common aliases.
func Lookup(mediaType string) (Codec, bool) {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if alias, ok := aliases[mt]; ok {
		mt = alias
	}
	for _, c := range codecs {
		if c.ContentType() == mt {
			return c, true
		}
	}
	return nil, false
}

// Negotiate picks a codec for an Accept header value. The entry with the
// highest q wins; ties go to the earlier entry. Wildcards and unknown or
// empty headers fall back to Default.
func Negotiate(accept string) Codec {
	best, bestQ := Default(), 0.0
	for _, part := range strings.Split(accept, ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		q := 1.0
		if v, ok := params["q"]; ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				q = f
			}
		}
		if q <= bestQ {
			continue
		}
		if mt == "*/*" || mt == "application/*" {
			best, bestQ = Default(), q
			continue
		}
		if c, ok := Lookup(mt); ok {
			best, bestQ = c, q
		}
	}
	return best
}
