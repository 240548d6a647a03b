// ABOUTME: Error classification for media sources
// ABOUTME: Separates fatal stream errors from skippable unit errors
package media

import "errors"

// Kind classifies a source failure. The decode worker keys its recovery
// policy off the kind: conversion failures skip one unit, everything
// else ends the stream.
type Kind int

const (
	OpenFailure Kind = iota
	DecodeFailure
	SeekFailure
	ConversionFailure
)

func (k Kind) String() string {
	switch k {
	case OpenFailure:
		return "open failure"
	case DecodeFailure:
		return "decode failure"
	case SeekFailure:
		return "seek failure"
	case ConversionFailure:
		return "conversion failure"
	}
	return "unknown failure"
}

// Error is a classified source failure. End of stream is not an Error:
// sources return io.EOF for that.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "open demuxer"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsFailure reports whether err is or wraps a media Error of kind k.
func IsFailure(err error, k Kind) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == k
}
