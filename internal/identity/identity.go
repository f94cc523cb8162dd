package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/github4bhavin/snowplow-optimization/internal/model"
)

// RunIDLayout formats a run id as YYYY-MM-DD-HH-MM-SS. It sorts lexically
// and is safe as an object-storage path segment.
const RunIDLayout = "2006-01-02-15-04-05"

// Clock supplies the instant a run is stamped with
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Derive stamps a batch with a run id and an epoch timestamp. Both are taken
// from now in UTC so the storage path and the embedded timestamp agree.
func Derive(batchID string, now time.Time) model.RunIdentity {
	utc := now.UTC()
	return model.RunIdentity{
		BatchID:     batchID,
		RunID:       utc.Format(RunIDLayout),
		EpochMillis: utc.UnixMilli(),
	}
}

// ValidateBatchID checks that a batch id can be used as a single path segment
func ValidateBatchID(batchID string) error {
	if strings.TrimSpace(batchID) == "" {
		return fmt.Errorf("batch id must be non-empty")
	}
	if batchID == "." || batchID == ".." {
		return fmt.Errorf("batch id %q is not a valid path segment", batchID)
	}
	if strings.ContainsAny(batchID, "/\\ \t\r\n") {
		return fmt.Errorf("batch id %q must not contain slashes or whitespace", batchID)
	}
	return nil
}
