package course

import "errors"

// Errors the engine distinguishes by identity. Timeouts on bounded waits
// are soft failures and never surface as errors; they are logged and the
// step proceeds with degraded assumptions. Transient interaction errors
// stay inside the per-step fallback chains.
var (
	// ErrStructuralMismatch means a listing position the engine was about
	// to use no longer exists after a document mutation. It aborts the
	// current lesson or module only.
	ErrStructuralMismatch = errors.New("course: listing position no longer exists")

	// ErrCompletionSignalUnavailable means the platform's completion
	// function never appeared in the content frame. The lesson is marked
	// failed; the traversal continues.
	ErrCompletionSignalUnavailable = errors.New("course: completion function never appeared")
)
