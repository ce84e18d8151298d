package model

import "testing"

func TestTotalCapacityFor(t *testing.T) {
	tests := []struct {
		classrooms   int
		laboratories int
		want         int
	}{
		{0, 0, 0},
		{45, 12, 45*30 + 12*20},
		{24, 6, 840},
		{12, 1, 380},
		{1, 0, 30},
		{0, 1, 20},
	}

	for _, tt := range tests {
		got := TotalCapacityFor(tt.classrooms, tt.laboratories)
		if got != tt.want {
			t.Errorf("TotalCapacityFor(%d, %d) = %d, want %d", tt.classrooms, tt.laboratories, got, tt.want)
		}
	}
}

func TestValidInstitutionType(t *testing.T) {
	for _, valid := range []string{"universidad", "colegio", "escuela", "instituto"} {
		if !ValidInstitutionType(valid) {
			t.Errorf("expected %q to be valid", valid)
		}
	}

	for _, invalid := range []string{"", "university", "Universidad", "otro"} {
		if ValidInstitutionType(invalid) {
			t.Errorf("expected %q to be invalid", invalid)
		}
	}
}
