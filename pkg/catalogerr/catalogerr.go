// Package catalogerr defines the sentinel error kinds spec.md §7
// distinguishes, so callers can branch with errors.Is instead of string
// matching. CancelRequested is deliberately not wrapped into errors
// returned from public functions — loops check a stop predicate and return
// partial results instead, per spec.
package catalogerr

import "errors"

var (
	// ErrVolumeOpen indicates the raw volume device could not be opened;
	// fails the current drive only.
	ErrVolumeOpen = errors.New("catalogerr: unable to open volume")

	// ErrJournalQuery indicates FSCTL_QUERY_USN_JOURNAL failed; fails the
	// current drive only and schedules it for the fallback walk.
	ErrJournalQuery = errors.New("catalogerr: unable to query USN journal")

	// ErrTruncation indicates the packed record codec hit a short trailing
	// fragment; decoding returns the prefix decoded so far, with no
	// rollback.
	ErrTruncation = errors.New("catalogerr: truncated packed record stream")

	// ErrDbInitialize indicates the catalog database could not be
	// initialized; fatal for the catalog, so subsequent operations
	// short-circuit to "not ready".
	ErrDbInitialize = errors.New("catalogerr: catalog database initialization failed")

	// ErrFtsUnavailable indicates the FTS5 auxiliary could not be built;
	// downgraded to the LIKE path and logged once, never fails the build.
	ErrFtsUnavailable = errors.New("catalogerr: full-text index unavailable")

	// ErrUsnWraparound indicates the journal was reset (wraparound or
	// deletion); recorded, and triggers a full drive rebuild.
	ErrUsnWraparound = errors.New("catalogerr: USN journal wraparound detected")
)
