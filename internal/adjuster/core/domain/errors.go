// Package domain defines the error taxonomy shared by every stage of the
// bundle adjustment pipeline. Stages wrap these sentinels with context via
// fmt.Errorf("...: %w", err); the HTTP layer classifies with errors.Is and
// never inspects error strings.
package domain

import (
	"errors"
	"fmt"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjuster/core/domain/entity"
)

var (
	// ErrInvalidInput means the caller supplied a missing or malformed
	// order reference.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOrderNotFound means the upstream API reported no matching order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrLocationUnresolved means no warehouse location could be determined.
	ErrLocationUnresolved = errors.New("location unresolved")

	// ErrMalformedBundleSpec means a bundle property carried a quantity that
	// is present but not parseable as an integer. Tokens with an empty half
	// are skipped instead, so this only fires on genuinely broken data.
	ErrMalformedBundleSpec = errors.New("malformed bundle spec")

	// ErrUpstreamUnavailable is a transport-level failure talking to the
	// platform. It is surfaced, never retried here.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamProtocol means the upstream answered with an unexpected
	// shape: top-level GraphQL errors, a missing payload, or a body we
	// could not decode.
	ErrUpstreamProtocol = errors.New("upstream protocol error")

	// ErrValidationRejected means the platform rejected one or more changes.
	// Use AsValidation to recover the field/message detail.
	ErrValidationRejected = errors.New("adjustment rejected by upstream validation")
)

// ValidationError carries the platform's field-level userErrors verbatim.
// It matches ErrValidationRejected under errors.Is.
type ValidationError struct {
	UserErrors []entity.UserError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %d user error(s)", ErrValidationRejected, len(e.UserErrors))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationRejected
}

// AsValidation unwraps err into a *ValidationError if one is in the chain.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
