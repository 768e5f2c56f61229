package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
)

// retryOnBusy retries op while SQLite reports lock contention. Constraint
// violations and every other error stop immediately.
func retryOnBusy(op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	b.RandomizationFactor = 0.1

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isBusy(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b)
}

// Error detection relies on modernc.org/sqlite message strings.
func isBusy(err error) bool {
	s := err.Error()
	return strings.Contains(s, "database is locked") || strings.Contains(s, "SQLITE_BUSY")
}

func isUnique(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

func isForeignKey(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint")
}

func isCheck(err error) bool {
	return strings.Contains(err.Error(), "CHECK constraint")
}

// mapError translates driver errors into the domain taxonomy.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isUnique(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicateIdentifier)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
}

// mapBookingError adds the booking-specific constraint failures to mapError.
func mapBookingError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isForeignKey(err):
		return fmt.Errorf("%s: %w", op, domain.Errorf(domain.ErrInvalidBooking, "unknown owner"))
	case isCheck(err):
		return fmt.Errorf("%s: %w", op, domain.Errorf(domain.ErrInvalidBooking, "constraint violated"))
	default:
		return mapError(op, err)
	}
}
