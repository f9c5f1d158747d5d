package substrate

import "testing"

func TestAsString(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "plain string",
			input: "Strategic Insight",
			want:  "Strategic Insight",
		},
		{
			name:  "nil",
			input: nil,
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  "",
		},
		{
			name:  "json number integral",
			input: float64(42),
			want:  "42",
		},
		{
			name:  "json number fractional",
			input: 0.75,
			want:  "0.75",
		},
		{
			name:  "bool",
			input: true,
			want:  "true",
		},
		{
			name:  "unsupported type",
			input: map[string]any{"nested": "value"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsString(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected coerced value: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFloatOr(t *testing.T) {
	if got := FloatOr(nil, 0.7); got != 0.7 {
		t.Fatalf("expected default 0.7, got %v", got)
	}
	v := 0.3
	if got := FloatOr(&v, 0.7); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
}
