// Package payload holds the few places the registry looks inside serialized
// resource bytes, plus the base64 codec used on the wire.
package payload

import (
	"errors"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var errMalformed = errors.New("payload is not protobuf wire data")

// StampCreated sets the google.protobuf.Timestamp at path to t and reports
// whether the payload was rewritten. Payloads that do not parse as protobuf
// wire data, and empty payloads, are returned unchanged.
func StampCreated(payload []byte, path []int32, t time.Time) ([]byte, bool) {
	if len(path) == 0 || len(payload) == 0 {
		return payload, false
	}
	ts, err := proto.MarshalOptions{Deterministic: true}.Marshal(timestamppb.New(t))
	if err != nil {
		return payload, false
	}
	out, err := setMessageField(payload, path, ts)
	if err != nil {
		return payload, false
	}
	return out, true
}

// setMessageField replaces the length-delimited field at path inside msg.
// Repeated occurrences of an embedded message are concatenated first, which
// is how the wire format merges them.
func setMessageField(msg []byte, path []int32, value []byte) ([]byte, error) {
	target := protowire.Number(path[0])

	var (
		out      []byte
		existing []byte
		found    bool
		at       int
	)
	for b := msg; len(b) > 0; {
		num, typ, n := protowire.ConsumeField(b)
		if n < 0 {
			return nil, errMalformed
		}
		field := b[:n]
		b = b[n:]

		if num != target {
			out = append(out, field...)
			continue
		}
		if typ != protowire.BytesType {
			return nil, errMalformed
		}
		_, _, tagLen := protowire.ConsumeTag(field)
		body, m := protowire.ConsumeBytes(field[tagLen:])
		if m < 0 {
			return nil, errMalformed
		}
		if !found {
			at = len(out)
			found = true
		}
		existing = append(existing, body...)
	}
	if !found {
		at = len(out)
	}

	inner := value
	if len(path) > 1 {
		var err error
		inner, err = setMessageField(existing, path[1:], value)
		if err != nil {
			return nil, err
		}
	}

	field := protowire.AppendTag(nil, target, protowire.BytesType)
	field = protowire.AppendBytes(field, inner)

	result := make([]byte, 0, len(out)+len(field))
	result = append(result, out[:at]...)
	result = append(result, field...)
	result = append(result, out[at:]...)
	return result, nil
}
