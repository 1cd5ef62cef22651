package analysis

import (
	"errors"
	"fmt"
)

// ValidationError means the caller handed over text the engine will not
// analyze. It maps to a client error at the transport layer.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[Engine] invalid input: %s", e.Reason)
}

// AnalysisError reports an unexpected failure inside one stage of the engine.
type AnalysisError struct {
	Stage string
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("[Engine] %s failed: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// StoreError means the analysis succeeded but the record could not be saved.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("[Service] failed to save analysis: %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func IsStoreError(err error) bool {
	var serr *StoreError
	return errors.As(err, &serr)
}
