package strata

import (
	"errors"
	"fmt"
)

// ErrMissingKey is the sentinel matched by errors.Is for absent keys
var ErrMissingKey = errors.New("configuration key not found")

// MissingKeyError reports a lookup for a key that has no value
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("configuration key %q not found", e.Key)
}

func (e *MissingKeyError) Unwrap() error {
	return ErrMissingKey
}

// ConversionError reports a value that could not be converted to the
// requested type
type ConversionError struct {
	Key    string
	Value  interface{}
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration key %q: cannot convert %v to %s: %v", e.Key, e.Value, e.Target, e.Err)
	}
	return fmt.Sprintf("configuration key %q: cannot convert %v to %s", e.Key, e.Value, e.Target)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ParseError reports a syntax problem in a configuration source
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadError reports a failure reading from or writing to a configuration
// source
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("configuration source %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
