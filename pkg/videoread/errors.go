package videoread

import (
	"errors"
	"fmt"

	"github.com/user/videoread/pkg/ports"
)

var (
	// ErrNotOpen is returned when a property or operation is accessed
	// while no file is open. The caller can recover by calling Open.
	ErrNotOpen = errors.New("videoread: no file is open")

	// ErrDisposed is returned by every operation after Dispose. The
	// reader instance cannot be reused.
	ErrDisposed = errors.New("videoread: reader has been disposed")
)

// OpenError reports a failure to open a container: missing file,
// unrecognized format, or no usable stream. The reader stays closed and
// Open may be retried with a different path.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("videoread: open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// DecodeError reports a corrupted or unsupported packet encountered
// during a read or a forced seek-forward. It is surfaced immediately,
// never retried; the cursor keeps its last successfully advanced
// position so the caller may continue reading past the bad packet.
type DecodeError struct {
	Stream ports.StreamKind
	// Time is the cursor position in seconds when the failure occurred.
	Time float64
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("videoread: decode %s at %.3fs: %v", e.Stream, e.Time, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
