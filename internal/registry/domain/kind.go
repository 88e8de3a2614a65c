package domain

// Kind identifies one category of registry resource.
type Kind int

const (
	KindEntity Kind = iota
	KindDataSource
	KindFeatureView
	KindStreamFeatureView
	KindOnDemandFeatureView
	KindRequestFeatureView
	KindFeatureService
	KindSavedDataset
	KindValidationReference
	KindManagedInfra

	kindCount
)

var kindNames = [kindCount]string{
	KindEntity:              "entity",
	KindDataSource:          "data_source",
	KindFeatureView:         "feature_view",
	KindStreamFeatureView:   "stream_feature_view",
	KindOnDemandFeatureView: "on_demand_feature_view",
	KindRequestFeatureView:  "request_feature_view",
	KindFeatureService:      "feature_service",
	KindSavedDataset:        "saved_dataset",
	KindValidationReference: "validation_reference",
	KindManagedInfra:        "managed_infra",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the enumerated kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// AllKinds returns every kind in enumeration order.
func AllKinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a wire name such as "feature_view".
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, UnknownResourceKind(s)
}

// KindSet is the set of kinds an operation accepts.
type KindSet struct {
	name  string
	kinds []Kind
}

var (
	// Postable kinds may be applied.
	Postable = KindSet{name: "postable", kinds: AllKinds()}
	// Gettable kinds may be fetched one at a time.
	Gettable = KindSet{name: "gettable", kinds: AllKinds()}
	// Deletable kinds may be removed independently.
	Deletable = KindSet{name: "deletable", kinds: []Kind{
		KindEntity,
		KindDataSource,
		KindFeatureService,
		KindFeatureView,
		KindSavedDataset,
		KindValidationReference,
	}}
	// Queryable kinds may be listed.
	Queryable = KindSet{name: "queryable", kinds: []Kind{
		KindEntity,
		KindDataSource,
		KindFeatureView,
		KindStreamFeatureView,
		KindOnDemandFeatureView,
		KindRequestFeatureView,
		KindFeatureService,
		KindSavedDataset,
		KindValidationReference,
	}}
	// ViewLike kinds carry user metadata.
	ViewLike = KindSet{name: "feature view", kinds: []Kind{
		KindFeatureView,
		KindStreamFeatureView,
		KindOnDemandFeatureView,
		KindRequestFeatureView,
	}}
)

// Contains reports whether k belongs to the set.
func (s KindSet) Contains(k Kind) bool {
	for _, member := range s.kinds {
		if member == k {
			return true
		}
	}
	return false
}

// Kinds returns a copy of the members in enumeration order.
func (s KindSet) Kinds() []Kind {
	return append([]Kind(nil), s.kinds...)
}

// Require returns an invalid input error when k is outside the set.
func (s KindSet) Require(k Kind) error {
	if !k.Valid() {
		return UnknownResourceKind(k.String())
	}
	if !s.Contains(k) {
		return InvalidInput("resource %q is not a %s resource", k.String(), s.name)
	}
	return nil
}

// ParseIn parses a wire name and checks it against the set.
func (s KindSet) ParseIn(name string) (Kind, error) {
	k, err := ParseKind(name)
	if err != nil {
		return 0, err
	}
	if err := s.Require(k); err != nil {
		return 0, err
	}
	return k, nil
}
