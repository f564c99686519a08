package wire

import "encoding/xml"

// xmlCodec implements Codec for XML. Values need an XMLName or a named type
// to produce a sensible root element.
type xmlCodec struct{}

// XML returns an XML codec.
func XML() Codec {
	return &xmlCodec{}
}

func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML with the standard header.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
