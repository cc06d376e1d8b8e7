package domain

import "testing"

func TestOutcomeStatus(t *testing.T) {
	tests := []struct {
		name     string
		inputs   int
		outputs  int
		expected ProductStatus
	}{
		{name: "no inputs", inputs: 0, outputs: 0, expected: ProductNoInputs},
		{name: "all succeeded", inputs: 3, outputs: 3, expected: ProductSuccess},
		{name: "some failed", inputs: 3, outputs: 2, expected: ProductPartialFailure},
		{name: "all failed", inputs: 2, outputs: 0, expected: ProductPartialFailure},
		{name: "single success", inputs: 1, outputs: 1, expected: ProductSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OutcomeStatus(tt.inputs, tt.outputs)
			if got != tt.expected {
				t.Errorf("OutcomeStatus(%d, %d) = %q, want %q", tt.inputs, tt.outputs, got, tt.expected)
			}
		})
	}
}

func TestRequestStatusTitle(t *testing.T) {
	if got := RequestProcessing.Title(); got != "Processing" {
		t.Errorf("expected 'Processing', got %q", got)
	}
	if got := RequestCompleted.Title(); got != "Completed" {
		t.Errorf("expected 'Completed', got %q", got)
	}
	if got := RequestStatus("weird").Title(); got != "weird" {
		t.Errorf("unknown status should pass through, got %q", got)
	}
}

func TestRequestMarkAsCompleted(t *testing.T) {
	r := &Request{ID: "req-1", Status: RequestProcessing}
	if r.IsCompleted() {
		t.Fatal("fresh request must not be completed")
	}

	r.MarkAsCompleted()

	if !r.IsCompleted() {
		t.Error("request should be completed after MarkAsCompleted")
	}
	if r.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}
