package ghostfs

import (
	"errors"
	"fmt"
	"syscall"

	pkgerrors "github.com/pkg/errors"
)

// Kind tags a GhostFS error with the category the outer mount driver needs
// in order to translate it into the right errno.
type Kind int

const (
	KindInvalid Kind = iota
	KindNotFound
	KindNotADirectory
	KindIsADirectory
	KindNameTooLong
	KindExists
	KindNotEmpty
	KindNoSpace
	KindTooLarge
	KindOverflow
	KindOutOfRange
	KindCorrupt
	KindIO
	KindOOM
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not-found"
	case KindNotADirectory:
		return "not-a-directory"
	case KindIsADirectory:
		return "is-a-directory"
	case KindNameTooLong:
		return "name-too-long"
	case KindExists:
		return "exists"
	case KindNotEmpty:
		return "not-empty"
	case KindNoSpace:
		return "no-space"
	case KindTooLarge:
		return "too-large"
	case KindOverflow:
		return "overflow"
	case KindOutOfRange:
		return "out-of-range"
	case KindCorrupt:
		return "corrupt"
	case KindIO:
		return "io"
	case KindOOM:
		return "oom"
	default:
		return "unknown"
	}
}

// Error is the tagged error type every GhostFS operation returns on
// failure. It wraps its cause with a stack trace captured at the point of
// origin, so a caller debugging a corrupt carrier can see exactly where
// the chain anomaly was first detected.
type Error struct {
	Kind Kind
	err  error
}

func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: pkgerrors.Errorf(format, args...)}
}

func wrapErr(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: pkgerrors.Wrapf(cause, format, args...)}
}

func (e *Error) Error() string {
	return fmt.Sprintf("ghostfs: %s: %s", e.Kind, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

// Errno maps the error's Kind to the syscall.Errno a FUSE-style mount
// driver should surface to the kernel.
func (e *Error) Errno() syscall.Errno {
	switch e.Kind {
	case KindInvalid:
		return syscall.EINVAL
	case KindNotFound:
		return syscall.ENOENT
	case KindNotADirectory:
		return syscall.ENOTDIR
	case KindIsADirectory:
		return syscall.EISDIR
	case KindNameTooLong:
		return syscall.ENAMETOOLONG
	case KindExists:
		return syscall.EEXIST
	case KindNotEmpty:
		return syscall.ENOTEMPTY
	case KindNoSpace:
		return syscall.ENOSPC
	case KindTooLarge:
		return syscall.EFBIG
	case KindOverflow:
		return syscall.EOVERFLOW
	case KindOutOfRange:
		return syscall.ERANGE
	case KindCorrupt:
		return syscall.EIO
	case KindIO:
		return syscall.EIO
	case KindOOM:
		return syscall.ENOMEM
	default:
		return syscall.EIO
	}
}

// IsKind reports whether err is a *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
