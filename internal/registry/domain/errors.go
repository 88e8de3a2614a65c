package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every per-kind not-found error.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput matches every rejected request argument.
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError reports a lookup by (kind, project, name) that matched no row.
type NotFoundError struct {
	Kind    Kind
	Name    string
	Project string
	label   string
}

func (e *NotFoundError) Error() string {
	if e.Project == "" {
		return fmt.Sprintf("%s %s does not exist", e.label, e.Name)
	}
	return fmt.Sprintf("%s %s does not exist in project %s", e.label, e.Name, e.Project)
}

// Is lets errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFoundFunc builds the not-found error of one kind.
type NotFoundFunc func(name, project string) error

func notFound(kind Kind, label string) NotFoundFunc {
	return func(name, project string) error {
		return &NotFoundError{Kind: kind, Name: name, Project: project, label: label}
	}
}

var (
	EntityNotFound              = notFound(KindEntity, "Entity")
	DataSourceNotFound          = notFound(KindDataSource, "Data source")
	FeatureServiceNotFound      = notFound(KindFeatureService, "Feature service")
	SavedDatasetNotFound        = notFound(KindSavedDataset, "Saved dataset")
	ValidationReferenceNotFound = notFound(KindValidationReference, "Validation reference")
	InfraNotFound               = notFound(KindManagedInfra, "Infra")
)

// FeatureViewNotFound is shared by every view-like kind.
func FeatureViewNotFound(kind Kind) NotFoundFunc {
	return notFound(kind, "Feature view")
}

// InvalidInputError reports a request rejected before storage is touched.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrInvalidInput) succeed.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidInput formats a new InvalidInputError.
func InvalidInput(format string, args ...any) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// UnknownResourceKind is returned for kind names outside the enumeration.
func UnknownResourceKind(name string) error {
	return InvalidInput("unknown resource kind %q", name)
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err is an invalid input condition.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
