package service

import (
	"context"
	"errors"

	appErrors "github.com/dodwmd/mediahost/pkg/errors"
)

// storeError maps a failed store call onto the typed error contract:
// deadline expiry becomes STORE_TIMEOUT, everything else STORE_UNAVAILABLE.
// Callers can always tell "no matches" (empty result, nil error) apart from
// "the store could not answer".
func storeError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.Wrap(err, appErrors.ErrStoreTimeout.Code, appErrors.ErrStoreTimeout.Status, message)
	}
	return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, message)
}
