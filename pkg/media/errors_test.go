// ABOUTME: Tests for media error classification
// ABOUTME: Verifies wrapping, unwrapping and kind matching
package media

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			"with cause",
			&Error{Kind: DecodeFailure, Op: "read packet", Err: errors.New("corrupt header")},
			"read packet: corrupt header",
		},
		{
			"without cause",
			&Error{Kind: SeekFailure, Op: "seek"},
			"seek: seek failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestIsFailure(t *testing.T) {
	cause := errors.New("swr_convert returned -22")
	err := fmt.Errorf("decode worker: %w", &Error{Kind: ConversionFailure, Op: "convert frame", Err: cause})

	if !IsFailure(err, ConversionFailure) {
		t.Error("expected wrapped conversion failure to match")
	}
	if IsFailure(err, DecodeFailure) {
		t.Error("conversion failure must not match decode failure")
	}
	if IsFailure(io.EOF, DecodeFailure) {
		t.Error("io.EOF is not a media error")
	}
	if IsFailure(nil, OpenFailure) {
		t.Error("nil must not match any kind")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("no such file")
	err := &Error{Kind: OpenFailure, Op: "open input", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{OpenFailure, "open failure"},
		{DecodeFailure, "decode failure"},
		{SeekFailure, "seek failure"},
		{ConversionFailure, "conversion failure"},
		{Kind(99), "unknown failure"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("Kind(%d): expected %q, got %q", tt.kind, tt.expected, got)
		}
	}
}
