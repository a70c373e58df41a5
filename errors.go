package slhdsa

import (
	"fmt"
	goLog "log"
)

// encodeUint64Into encodes x into out in big-endian, left-padding with zero
// bytes if out is longer than 8 bytes.
func encodeUint64Into(x uint64, out []byte) {
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = byte(x)
		x >>= 8
	}
}

// encodeUint64 encodes x as a big-endian [outLen]byte.
func encodeUint64(x uint64, outLen int) []byte {
	ret := make([]byte, outLen)
	encodeUint64Into(x, ret)
	return ret
}

// decodeUint64 interprets in as a big-endian unsigned integer.
func decodeUint64(in []byte) (ret uint64) {
	for i := 0; i < len(in); i++ {
		ret |= uint64(in[i]) << uint64(8*(len(in)-1-i))
	}
	return
}

// Error is returned by every fallible operation in this package. Locked
// distinguishes a fatal, non-recoverable condition (a malformed key or
// signature, a misconfigured parameter set) from one a caller might retry
// after fixing its inputs; Inner exposes a wrapped cause, if any.
type Error interface {
	error
	Locked() bool
	Inner() error
}

type errorImpl struct {
	msg    string
	locked bool
	inner  error
}

func (err *errorImpl) Locked() bool { return err.locked }
func (err *errorImpl) Inner() error { return err.inner }

func (err *errorImpl) Error() string {
	if err.inner != nil {
		return fmt.Sprintf("%s: %s", err.msg, err.inner.Error())
	}
	return err.msg
}

// errorf formats a new, locked Error.
func errorf(format string, a ...interface{}) *errorImpl {
	return &errorImpl{msg: fmt.Sprintf(format, a...), locked: true}
}

// wrapErrorf formats a new, locked Error that wraps another.
func wrapErrorf(err error, format string, a ...interface{}) *errorImpl {
	return &errorImpl{msg: fmt.Sprintf(format, a...), inner: err, locked: true}
}

type dummyLogger struct{}
type stdlibLogger struct{}

func (logger *dummyLogger) Logf(format string, a ...interface{}) {}

func (logger *stdlibLogger) Logf(format string, a ...interface{}) {
	goLog.Printf(format, a...)
}

var log Logger = &dummyLogger{}

// Logger is used to trace key generation and signing at a coarse level. The
// masked buffers themselves are never passed to a Logger.
type Logger interface {
	Logf(format string, a ...interface{})
}

// EnableLogging logs to the standard library log package. For more control,
// see SetLogger.
func EnableLogging() {
	SetLogger(&stdlibLogger{})
}

// SetLogger installs logger as the package-wide logger. Pass nil to disable
// logging.
func SetLogger(logger Logger) {
	if logger == nil {
		log = &dummyLogger{}
		return
	}
	log = logger
}
