// Package catalog maps each resource kind to its storage layout.
package catalog

import (
	"github.com/GoSim-25-26J-441/feast-registry/internal/registry/domain"
)

// MetadataTable holds per-project bookkeeping rows.
const MetadataTable = "feast_metadata"

// FieldPath locates a nested protobuf field by field numbers, outermost first.
type FieldPath []int32

// Descriptor is the storage layout of one resource kind.
type Descriptor struct {
	Kind          domain.Kind
	Table         string
	IDColumn      string
	PayloadColumn string
	// UserMetadata is set for tables carrying a user_metadata column.
	UserMetadata bool
	NotFound     domain.NotFoundFunc
	// CreatedTimestamp is nil when the payload has no creation time to stamp.
	CreatedTimestamp FieldPath
}

// metaCreated is meta (2) -> created_timestamp (1).
var metaCreated = FieldPath{2, 1}

var descriptors = [...]Descriptor{
	domain.KindEntity: {
		Table:            "entities",
		IDColumn:         "entity_name",
		PayloadColumn:    "entity_proto",
		NotFound:         domain.EntityNotFound,
		CreatedTimestamp: metaCreated,
	},
	domain.KindDataSource: {
		Table:         "data_sources",
		IDColumn:      "data_source_name",
		PayloadColumn: "data_source_proto",
		NotFound:      domain.DataSourceNotFound,
	},
	domain.KindFeatureView: {
		Table:            "feature_views",
		IDColumn:         "feature_view_name",
		PayloadColumn:    "feature_view_proto",
		UserMetadata:     true,
		NotFound:         domain.FeatureViewNotFound(domain.KindFeatureView),
		CreatedTimestamp: metaCreated,
	},
	domain.KindStreamFeatureView: {
		Table:            "stream_feature_views",
		IDColumn:         "feature_view_name",
		PayloadColumn:    "feature_view_proto",
		UserMetadata:     true,
		NotFound:         domain.FeatureViewNotFound(domain.KindStreamFeatureView),
		CreatedTimestamp: metaCreated,
	},
	domain.KindOnDemandFeatureView: {
		Table:            "on_demand_feature_views",
		IDColumn:         "feature_view_name",
		PayloadColumn:    "feature_view_proto",
		UserMetadata:     true,
		NotFound:         domain.FeatureViewNotFound(domain.KindOnDemandFeatureView),
		CreatedTimestamp: metaCreated,
	},
	domain.KindRequestFeatureView: {
		Table:         "request_feature_views",
		IDColumn:      "feature_view_name",
		PayloadColumn: "feature_view_proto",
		UserMetadata:  true,
		NotFound:      domain.FeatureViewNotFound(domain.KindRequestFeatureView),
	},
	domain.KindFeatureService: {
		Table:            "feature_services",
		IDColumn:         "feature_service_name",
		PayloadColumn:    "feature_service_proto",
		NotFound:         domain.FeatureServiceNotFound,
		CreatedTimestamp: metaCreated,
	},
	domain.KindSavedDataset: {
		Table:            "saved_datasets",
		IDColumn:         "saved_dataset_name",
		PayloadColumn:    "saved_dataset_proto",
		NotFound:         domain.SavedDatasetNotFound,
		CreatedTimestamp: metaCreated,
	},
	domain.KindValidationReference: {
		Table:         "validation_references",
		IDColumn:      "validation_reference_name",
		PayloadColumn: "validation_reference_proto",
		NotFound:      domain.ValidationReferenceNotFound,
	},
	domain.KindManagedInfra: {
		Table:         "managed_infra",
		IDColumn:      "infra_name",
		PayloadColumn: "infra_proto",
		NotFound:      domain.InfraNotFound,
	},
}

func init() {
	for i := range descriptors {
		descriptors[i].Kind = domain.Kind(i)
	}
}

// Lookup returns the descriptor of k.
func Lookup(k domain.Kind) (*Descriptor, error) {
	if !k.Valid() || int(k) >= len(descriptors) {
		return nil, domain.UnknownResourceKind(k.String())
	}
	return &descriptors[k], nil
}

// MustLookup is Lookup for kinds already validated by the caller.
func MustLookup(k domain.Kind) *Descriptor {
	d, err := Lookup(k)
	if err != nil {
		panic(err)
	}
	return d
}

// Tables returns every resource table in kind order.
func Tables() []string {
	out := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d.Table)
	}
	return out
}
