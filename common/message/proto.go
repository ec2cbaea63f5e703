package message

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

func Encode(msg proto.Message) ([]byte, error) {
	data, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	return data, errors.Wrap(err, "encode message")
}

func Decode(data []byte, msg proto.Message) error {
	return errors.Wrap(proto.Unmarshal(data, msg), "decode message")
}

// EncodeJSON renders msg as JSON, indented when pretty is set.
func EncodeJSON(msg proto.Message, pretty bool) ([]byte, error) {
	opts := protojson.MarshalOptions{}
	if pretty {
		opts.Multiline = true
		opts.Indent = "  "
	}
	data, err := opts.Marshal(msg)
	return data, errors.Wrap(err, "encode json message")
}

func DecodeJSON(data []byte, msg proto.Message) error {
	return errors.Wrap(protojson.Unmarshal(data, msg), "decode json message")
}
