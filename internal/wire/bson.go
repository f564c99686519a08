package wire

import "go.mongodb.org/mongo-driver/bson"

// bsonCodec implements Codec for BSON. Only documents (structs and maps)
// can be marshaled.
type bsonCodec struct{}

// BSON returns a BSON codec.
func BSON() Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
