package helpers

import (
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain list",
			input:    "http://a/1.png,http://a/2.png",
			expected: []string{"http://a/1.png", "http://a/2.png"},
		},
		{
			name:     "spaces around items",
			input:    " http://a/1.png , http://a/2.png ",
			expected: []string{"http://a/1.png", "http://a/2.png"},
		},
		{
			name:     "empty items dropped",
			input:    "a,,b,",
			expected: []string{"a", "b"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "only separators",
			input:    ",,,",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAndTrim(tt.input, ",")
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitAndTrim(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
