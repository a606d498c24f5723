package rating

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   int
		wantOK bool
	}{
		{"leading rating", "87/100 - good", 87, true},
		{"no rating", "no rating here", 0, false},
		{"above scale is kept", "150/100", 150, true},
		{"empty", "", 0, false},
		{"embedded in prose", "Overall I would give this 72/100 because it rambles.", 72, true},
		{"first match wins", "Clarity 40/100, structure 95/100", 40, true},
		{"space breaks the pattern", "87 /100", 0, false},
		{"other denominator", "8/10", 0, false},
		{"overflow", "99999999999999999999999/100", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("Extract(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Extract(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
