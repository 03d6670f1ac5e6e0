// Package obslog is maybe-log: a thin selective-tracing layer over logrus.
//
// It exists for the same reason the teacher repo's mlog package exists: a
// Printf-shaped tracer that costs nothing when disabled, and when enabled
// can be scoped to a subset of call sites by a regular expression read from
// the environment, rather than either "log everything" or "log nothing".
// Where mlog matched against the caller's source file, obslog matches
// against a caller-supplied tag (one per subsystem: "api", "cluster",
// "superblock", ...), since logrus fields are a more natural
// home for that than re-deriving runtime.Caller on every call.
package obslog

import (
	"io"
	"os"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	mu          sync.Mutex
	pattern     *regexp.Regexp
	tag2enabled = map[string]bool{}
	enabled     int32

	// sessionID is attached to every line emitted during this process's
	// lifetime, so log output from two mounts of the same carrier run back
	// to back can still be told apart.
	sessionID = uuid.New().String()[:8]

	logger = logrus.New()
)

func init() {
	if p := os.Getenv("GHOSTFS_LOG"); p != "" {
		SetPattern(p)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
}

// SetPattern enables tracing for any tag matching the given regular
// expression, or disables tracing entirely if pattern is empty. It is safe
// to call concurrently with Tracef, though GhostFS itself never does so
// (see spec.md §5 — the engine has no internal concurrency).
func SetPattern(p string) {
	mu.Lock()
	defer mu.Unlock()
	tag2enabled = map[string]bool{}
	if p == "" {
		pattern = nil
		atomic.StoreInt32(&enabled, 0)
		logger.SetLevel(logrus.WarnLevel)
		return
	}
	pattern = regexp.MustCompile(p)
	atomic.StoreInt32(&enabled, 1)
	logger.SetLevel(logrus.DebugLevel)
}

// Enabled reports whether tracing is on at all, so callers can skip
// building an expensive argument list when it would be discarded anyway.
func Enabled() bool {
	return atomic.LoadInt32(&enabled) != 0
}

func tagEnabled(tag string) bool {
	mu.Lock()
	defer mu.Unlock()
	if v, ok := tag2enabled[tag]; ok {
		return v
	}
	v := pattern != nil && pattern.MatchString(tag)
	tag2enabled[tag] = v
	return v
}

// Tracef logs a debug-level trace line for the given tag, if tracing is
// enabled at all and the tag matches the configured pattern.
func Tracef(tag, format string, args ...interface{}) {
	if !Enabled() || !tagEnabled(tag) {
		return
	}
	logger.WithFields(logrus.Fields{"tag": tag, "session": sessionID}).Debugf(format, args...)
}

// Warnf always logs, regardless of the tracing pattern — for conditions
// worth surfacing even with GHOSTFS_LOG unset.
func Warnf(tag, format string, args ...interface{}) {
	logger.WithFields(logrus.Fields{"tag": tag, "session": sessionID}).Warnf(format, args...)
}

// SetOutput overrides the destination of the underlying logrus logger
// (tests redirect this to capture or silence output).
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}
