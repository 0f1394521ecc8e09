package platform

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"404", &APIError{StatusCode: 404}, true},
		{"wrapped 404", fmt.Errorf("get branch: %w", &APIError{StatusCode: 404}), true},
		{"500", &APIError{StatusCode: 500}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrUnsupportedCapabilitySurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("render review_body: %w", ErrUnsupportedCapability)
	if !errors.Is(err, ErrUnsupportedCapability) {
		t.Error("wrapped sentinel must still match")
	}
}

func TestNormalizeChangeType(t *testing.T) {
	tests := []struct {
		status, want string
	}{
		{"removed", "deleted"},
		{"deleted", "deleted"},
		{"added", "added"},
		{"renamed", "renamed"},
		{"modified", "modified"},
		{"changed", "modified"},
		{"Removed", "deleted"},
	}
	for _, tt := range tests {
		if got := normalizeChangeType(tt.status); got != tt.want {
			t.Errorf("normalizeChangeType(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
