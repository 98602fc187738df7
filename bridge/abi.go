package bridge

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/membridge/errors"
)

// Sentinel results for the boundary surface. No error value, and no panic,
// ever crosses the boundary: every failure is one of these scalars, and a
// caller receiving one must not read any output buffer of the call.
const (
	// StatusNull reports a null required pointer or a dead handle.
	StatusNull int32 = -1
	// StatusTooSmall reports an output buffer that cannot hold the result
	// plus its terminator. Recoverable: retry with a larger buffer.
	StatusTooSmall int32 = -2

	// ScoreInvalid is the score-valued sentinel. Valid scores are always
	// non-negative, so the negative range is free for signaling.
	ScoreInvalid float64 = -1.0
)

// ABI is the scalar-only view of a Bridge: every method takes and returns
// only uint32/int32/float64, for callers on the far side of the boundary.
type ABI struct {
	b *Bridge
}

// ABI returns the bridge's boundary surface.
func (b *Bridge) ABI() *ABI {
	return &ABI{b: b}
}

// CreateContext returns a fresh context handle, or 0 after Close.
func (a *ABI) CreateContext() uint32 {
	return uint32(a.b.CreateContext())
}

// DestroyContext releases a context. Null and stale handles are no-ops.
func (a *ABI) DestroyContext(h uint32) {
	a.b.DestroyContext(Handle(h))
}

// Process returns the record's score, or ScoreInvalid on any invalid input.
func (a *ABI) Process(h uint32, recPtr uint32) float64 {
	sc, err := a.b.Process(Handle(h), recPtr)
	if err != nil {
		logBoundaryError("process", err)
		return ScoreInvalid
	}
	return sc
}

// GenerateContent renders content for the record into [outPtr, outPtr+outCap).
// The mode is a (ptr, len) platform name in shared memory; unrecognized
// names select the default template. Returns the byte count written
// (terminator excluded), StatusNull, or StatusTooSmall.
func (a *ABI) GenerateContent(h, recPtr, modePtr, modeLen, outPtr, outCap uint32) int32 {
	if modePtr == 0 {
		return StatusNull
	}
	name, err := a.b.mem.Read(modePtr, modeLen)
	if err != nil {
		logBoundaryError("generate_content", err)
		return StatusNull
	}

	n, err := a.b.GenerateContent(Handle(h), recPtr, ParseMode(string(name)), outPtr, outCap)
	if err != nil {
		logBoundaryError("generate_content", err)
		if isKind(err, errors.KindBufferTooSmall) {
			return StatusTooSmall
		}
		return StatusNull
	}
	return int32(n)
}

// BatchProcess scores count contiguous records into the results array.
// Returns the number of records processed, or StatusNull; the batch is
// atomic, so a negative return means no result slot was written.
func (a *ABI) BatchProcess(h, recsPtr, count, resultsPtr uint32) int32 {
	n, err := a.b.BatchProcess(Handle(h), recsPtr, count, resultsPtr)
	if err != nil {
		logBoundaryError("batch_process", err)
		return StatusNull
	}
	return int32(n)
}

// PostCount returns how many posts the context has generated, or StatusNull.
func (a *ABI) PostCount(h uint32) int32 {
	n, err := a.b.PostCount(Handle(h))
	if err != nil {
		logBoundaryError("post_count", err)
		return StatusNull
	}
	return int32(n)
}

// CopyPost writes one generated post as a post record at outPtr.
// Returns 0 on success or StatusNull.
func (a *ABI) CopyPost(h, index, outPtr uint32) int32 {
	if err := a.b.CopyPost(Handle(h), index, outPtr); err != nil {
		logBoundaryError("copy_post", err)
		return StatusNull
	}
	return 0
}

// AllocString returns a fresh terminator-padded buffer of n+1 bytes, or the
// null offset on exhaustion.
func (a *ABI) AllocString(n uint32) uint32 {
	ptr, err := a.b.AllocString(n)
	if err != nil {
		logBoundaryError("alloc_string", err)
		return 0
	}
	return ptr
}

// FreeString releases an AllocString buffer. Null is a no-op.
func (a *ABI) FreeString(ptr uint32) {
	a.b.FreeString(ptr)
}

// Version returns the offset of the static version string, terminator
// included. Bridge-owned; callers must never free it.
func (a *ABI) Version() uint32 {
	return a.b.VersionPtr()
}

func isKind(err error, kind errors.Kind) bool {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func logBoundaryError(op string, err error) {
	Logger().Debug("boundary operation rejected", zap.String("op", op), zap.Error(err))
}
