package models

import "testing"

func TestNextReadersScore(t *testing.T) {
	tests := []struct {
		name     string
		oldScore int
		oldCount int
		rating   int
		want     int
	}{
		{"first rating", 0, 0, 80, 80},
		{"second rating averages", 80, 1, 60, 70},
		{"rounds half up", 50, 2, 80, 60},
		{"rounds down below half", 70, 2, 50, 63},
		{"zero rating pulls down", 100, 1, 0, 50},
		{"max stays max", 100, 4, 100, 100},
	}

	for _, tt := range tests {
		if got := NextReadersScore(tt.oldScore, tt.oldCount, tt.rating); got != tt.want {
			t.Errorf("%s: NextReadersScore(%d, %d, %d) = %d, want %d",
				tt.name, tt.oldScore, tt.oldCount, tt.rating, got, tt.want)
		}
	}
}

func TestRoleUploaderType(t *testing.T) {
	if got := RolePublisher.UploaderType(); got != UploaderPublisher {
		t.Errorf("publisher uploader type = %s", got)
	}
	if got := RoleUser.UploaderType(); got != UploaderUser {
		t.Errorf("user uploader type = %s", got)
	}
	if got := RoleAdmin.UploaderType(); got != UploaderUser {
		t.Errorf("admin uploader type = %s", got)
	}
}
