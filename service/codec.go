package service

import (
	"bytes"
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// Content subtype every FullNodeService call is made with, see CallOptions.
const CODEC_NAME = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec carries plain Go structs over gRPC. Numbers are decoded as json.Number so
// transactions keep their exact values and hashes.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func (jsonCodec) Name() string {
	return CODEC_NAME
}
