package domain

import "time"

// Metadata keys stored in the feast_metadata table.
const (
	MetadataProjectUUID   = "project_uuid"
	MetadataLastUpdatedTS = "last_updated_timestamp"
)

// ApplyRequest carries one create-or-update of a resource payload.
type ApplyRequest struct {
	Kind      Kind
	Project   string
	Name      string
	Payload   []byte
	UpdatedAt time.Time
}

// ResourceRef is an inventory entry without payload bytes.
type ResourceRef struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"-"`
	Type    string `json:"type"`
	Project string `json:"project"`
}

// ProjectMetadata is the identity record of a project.
type ProjectMetadata struct {
	Project     string
	ProjectUUID string
}
