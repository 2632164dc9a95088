package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec carries plain Go structs as JSON, replacing connect's protobuf-only JSON codec
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
