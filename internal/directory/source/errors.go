package source

import (
	"errors"
	"fmt"

	dErrors "userdir/pkg/domain-errors"
)

// FailureCategory is the normalized taxonomy of load failures.
type FailureCategory string

const (
	// FailureTimeout indicates the upstream took too long to respond
	FailureTimeout FailureCategory = "timeout"

	// FailureUnavailable indicates the upstream could not be reached or reported an outage
	FailureUnavailable FailureCategory = "unavailable"

	// FailureRateLimited indicates the upstream rejected the request for volume
	FailureRateLimited FailureCategory = "rate_limited"

	// FailureBadStatus indicates any other non-2xx response
	FailureBadStatus FailureCategory = "bad_status"

	// FailureMalformed indicates the response body could not be understood
	FailureMalformed FailureCategory = "malformed"

	// FailureInternal indicates the request could not be built
	FailureInternal FailureCategory = "internal"
)

// LoadFailure is the single error kind of the loader: the batch could not be obtained.
// Retryable is informational only; the directory never retries.
type LoadFailure struct {
	Category   FailureCategory
	SourceID   string
	Message    string
	StatusCode int
	Underlying error
	Retryable  bool
}

func (e *LoadFailure) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s [%s]: %s: %v", e.SourceID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s [%s]: %s", e.SourceID, e.Category, e.Message)
}

func (e *LoadFailure) Unwrap() error {
	return e.Underlying
}

// NewLoadFailure creates a load failure with retry classification derived from the category.
func NewLoadFailure(category FailureCategory, sourceID, message string, underlying error) *LoadFailure {
	return &LoadFailure{
		Category:   category,
		SourceID:   sourceID,
		Message:    message,
		Underlying: underlying,
		Retryable:  category == FailureTimeout || category == FailureUnavailable || category == FailureRateLimited,
	}
}

// WithStatus records the upstream HTTP status on the failure.
func (e *LoadFailure) WithStatus(code int) *LoadFailure {
	e.StatusCode = code
	return e
}

// CategoryOf extracts the failure category from an error chain.
func CategoryOf(err error) FailureCategory {
	var lf *LoadFailure
	if errors.As(err, &lf) {
		return lf.Category
	}
	return FailureInternal
}

// ToDomainError translates a load failure into a transport-agnostic domain error.
func ToDomainError(err error) error {
	if err == nil {
		return nil
	}
	switch CategoryOf(err) {
	case FailureTimeout:
		return dErrors.Wrap(err, dErrors.CodeTimeout, "people directory timed out")
	case FailureUnavailable, FailureRateLimited, FailureBadStatus, FailureMalformed:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "people directory unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "people directory load failed")
	}
}
