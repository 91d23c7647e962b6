package inventory

import "testing"

func TestComputeOutgoing(t *testing.T) {
	tests := []struct {
		previous, received, current, want int
	}{
		{10, 5, 12, 3},
		{0, 0, 0, 0},
		{0, 0, 5, -5},
		{100, 0, 30, 70},
		{3, 7, 10, 0},
	}
	for _, tt := range tests {
		if got := ComputeOutgoing(tt.previous, tt.received, tt.current); got != tt.want {
			t.Errorf("ComputeOutgoing(%d, %d, %d) = %d, want %d",
				tt.previous, tt.received, tt.current, got, tt.want)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"zero", 0, "0"},
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"grouping", 1000, "1.000"},
		{"large", 1234567, "1.234.567"},
		{"int64", int64(2500), "2.500"},
		{"float no fraction", 1000.0, "1.000"},
		{"non-numeric passthrough", "abc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatQuantity(tt.in); got != tt.want {
				t.Errorf("FormatQuantity(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidMonth(t *testing.T) {
	valid := []string{"2025-01", "2025-12", "1999-06"}
	invalid := []string{"2025-13", "2025-00", "2025-1", "25-06", "2025/06", "", "2025-06-01"}
	for _, m := range valid {
		if !ValidMonth(m) {
			t.Errorf("ValidMonth(%q) = false, want true", m)
		}
	}
	for _, m := range invalid {
		if ValidMonth(m) {
			t.Errorf("ValidMonth(%q) = true, want false", m)
		}
	}
}

func TestPreviousMonths(t *testing.T) {
	got := PreviousMonths("2025-02", 3)
	want := []string{"2025-01", "2024-12", "2024-11"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PreviousMonths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if PreviousMonths("bogus", 3) != nil {
		t.Error("expected nil for invalid month key")
	}
}
