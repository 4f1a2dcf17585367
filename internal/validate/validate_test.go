package validate

import "testing"

func TestISBN(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"978-0-13-468599-1", "9780134685991", false},
		{"9780134685991", "9780134685991", false},
		{"0-306-40615-2", "0306406152", false},
		{"030640615x", "030640615X", false},
		{" 0 306 40615 2 ", "0306406152", false},
		{"978013468599", "", true},   // 12 digits
		{"97801346859912", "", true}, // 14 digits
		{"030640615A", "", true},
		{"X306406152", "", true}, // X only allowed last
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ISBN(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ISBN(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ISBN(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ISBN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequireBounded(t *testing.T) {
	if got, err := RequireBounded("title", "  The Hobbit  ", 1, 300); err != nil || got != "The Hobbit" {
		t.Errorf("RequireBounded trimmed = %q, err = %v", got, err)
	}
	if _, err := RequireBounded("title", "   ", 1, 300); err == nil {
		t.Error("RequireBounded accepted blank input")
	}
	if _, err := RequireBounded("title", "abcdef", 1, 5); err == nil {
		t.Error("RequireBounded accepted over-long input")
	}
}

func TestClampLimitOffset(t *testing.T) {
	tests := []struct {
		limit, offset string
		wantLimit     int
		wantOffset    int
	}{
		{"", "", 20, 0},
		{"50", "10", 50, 10},
		{"500", "0", 20, 0},  // above max falls back to default
		{"0", "-5", 20, 0},   // below bounds ignored
		{"abc", "xyz", 20, 0},
	}

	for _, tt := range tests {
		l, o := ClampLimitOffset(tt.limit, tt.offset, 20, 100)
		if l != tt.wantLimit || o != tt.wantOffset {
			t.Errorf("ClampLimitOffset(%q, %q) = (%d, %d), want (%d, %d)",
				tt.limit, tt.offset, l, o, tt.wantLimit, tt.wantOffset)
		}
	}
}
