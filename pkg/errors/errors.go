// Package errors provides the error taxonomy for grove training and
// inference. It wraps cockroachdb/errors so every constructed error carries
// a stack trace, and each typed error implements zerolog's ObjectMarshaler
// so structured fields survive into logs.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("grove-warning: %v\n", w)
	}
	// zerolog warn hook, injected lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the process-wide warning handler.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the configured sink. Warnings are purely
// observational and never alter training control flow.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Configuration errors (fail fast, before any training starts)
//
// ===========================================================================

// ValidationError reports a training configuration parameter that failed
// validation, e.g. MinimumDepth > MaximumDepth or a label-weight length
// mismatch.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("grove: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject adds structured validation context to a zerolog event.
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError creates a ValidationError with a stack trace.
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Training invariant violations (programmer-visible bugs, propagated
//	uncaught to the top-level caller)
//
// ===========================================================================

// TrainingInvariantError reports a condition the training algorithm
// guarantees cannot happen, such as a winning split that routes every
// point to one side. These are bugs, not user input errors.
type TrainingInvariantError struct {
	Op        string
	Invariant string
	Detail    string
}

func (e *TrainingInvariantError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("grove: %s: invariant violated: %s (%s)", e.Op, e.Invariant, e.Detail)
	}
	return fmt.Sprintf("grove: %s: invariant violated: %s", e.Op, e.Invariant)
}

// MarshalZerologObject adds structured invariant context to a zerolog event.
func (e *TrainingInvariantError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("invariant", e.Invariant).
		Str("detail", e.Detail).
		Str("type", "TrainingInvariantError")
}

// NewTrainingInvariantError creates a TrainingInvariantError with a stack trace.
func NewTrainingInvariantError(op, invariant, detail string) error {
	err := &TrainingInvariantError{Op: op, Invariant: invariant, Detail: detail}
	return errors.WithStack(err)
}

// NumericalInstabilityError reports NaN or Inf escaping a numeric
// computation, e.g. a feature response on degenerate input.
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("grove: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// MarshalZerologObject adds structured numeric context to a zerolog event.
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a
// stack trace.
func NewNumericalInstabilityError(operation string, values []float64) error {
	err := &NumericalInstabilityError{Operation: operation, Values: values}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Capability errors
//
// ===========================================================================

// NotSupportedError reports an optional capability a feature family does
// not implement (e.g. metadata export). Callers receive this explicitly
// rather than silently wrong data.
type NotSupportedError struct {
	Feature    string
	Capability string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("grove: feature %s does not support %s", e.Feature, e.Capability)
}

// MarshalZerologObject adds structured capability context to a zerolog event.
func (e *NotSupportedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("feature", e.Feature).
		Str("capability", e.Capability).
		Str("type", "NotSupportedError")
}

// NewNotSupportedError creates a NotSupportedError with a stack trace.
func NewNotSupportedError(feature, capability string) error {
	err := &NotSupportedError{Feature: feature, Capability: capability}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Warnings
//
// ===========================================================================

// DegenerateSplitWarning is emitted when threshold selection could not
// produce a usable cut for a node. This is a normal insufficient-data
// outcome (the node becomes a leaf), surfaced for diagnostics only.
type DegenerateSplitWarning struct {
	Op      string
	Support int
	Reason  string
}

func (w *DegenerateSplitWarning) Error() string {
	return fmt.Sprintf("%s: no usable split for %d points: %s", w.Op, w.Support, w.Reason)
}

// MarshalZerologObject adds structured split context to a zerolog event.
func (w *DegenerateSplitWarning) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", w.Op).
		Int("support", w.Support).
		Str("reason", w.Reason).
		Str("type", "DegenerateSplitWarning")
}

// NewDegenerateSplitWarning creates a DegenerateSplitWarning.
func NewDegenerateSplitWarning(op string, support int, reason string) *DegenerateSplitWarning {
	return &DegenerateSplitWarning{Op: op, Support: support, Reason: reason}
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error values
//
// ===========================================================================

var (
	// ErrEmptyData is returned when a training call receives no points.
	ErrEmptyData = New("empty data")

	// ErrNotLoaded is returned when ChooseThreshold is called on a Decider
	// that has not loaded any data.
	ErrNotLoaded = New("decider: data not loaded")
)
