package payload

import (
	"encoding/base64"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
)

// Encode renders payload bytes for a JSON body.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// EncodeAll encodes every payload, never returning nil.
func EncodeAll(items [][]byte) []string {
	out := make([]string, 0, len(items))
	for _, b := range items {
		out = append(out, Encode(b))
	}
	return out
}

// Decode parses a base64 payload received from a client.
func Decode(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, domain.InvalidInput("proto is not valid base64: %v", err)
	}
	return b, nil
}

// MarshalProjectMetadata serializes the record as the ProjectMetadata message
// (project = 1, project_uuid = 2).
func MarshalProjectMetadata(m domain.ProjectMetadata) []byte {
	var b []byte
	if m.Project != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Project)
	}
	if m.ProjectUUID != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, m.ProjectUUID)
	}
	return b
}
