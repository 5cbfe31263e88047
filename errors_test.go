package xloss

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	errs := []error{
		ErrTagCollision,
		ErrAuthentication,
		ErrInvalidBundle,
		ErrRoundTrip,
		ErrStylesheetLookup,
		ErrInvalidIdentifier,
	}

	for i, err1 := range errs {
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestIsCollision(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrTagCollision", ErrTagCollision, true},
		{"wrapped ErrTagCollision", fmt.Errorf("inject: %w", ErrTagCollision), true},
		{"other error", errors.New("other error"), false},
		{"ErrRoundTrip", ErrRoundTrip, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsCollision(tt.err)
			if result != tt.expect {
				t.Errorf("IsCollision(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestIsAuthentication(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrAuthentication", ErrAuthentication, true},
		{"ErrInvalidBundle", ErrInvalidBundle, true},
		{"wrapped ErrAuthentication", fmt.Errorf("reveal: %w", ErrAuthentication), true},
		{"ErrTagCollision", ErrTagCollision, false},
		{"other error", errors.New("other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsAuthentication(tt.err)
			if result != tt.expect {
				t.Errorf("IsAuthentication(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}
