// Package errors provides structured error types for the membridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, offending value, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
//		Path("research", "strategy").
//		Detail("text pointer past end of memory").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NilPointer(errors.PhaseValidate, path, "record")
//	err := errors.BufferTooSmall(errors.PhaseGenerate, 128, 64)
//
// All errors implement the standard error interface and support errors.Is/As.
//
// No error value ever crosses the boundary itself; the sentinel layer in
// package bridge maps these errors to documented scalar sentinels.
package errors
