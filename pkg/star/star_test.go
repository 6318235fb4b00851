package star

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"same point", Vec3{1, 2, 3}, Vec3{1, 2, 3}, 0},
		{"along x", Vec3{0, 0, 0}, Vec3{5, 0, 0}, 5},
		{"pythagorean", Vec3{0, 0, 0}, Vec3{3, 4, 0}, 5},
		{"three axes", Vec3{1, 1, 1}, Vec3{3, 3, 2}, 3},
		{"negative coords", Vec3{-5, 0, 0}, Vec3{0, 0, 0}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Distance() = %v, want %v", got, tt.want)
			}
			if got := Distance(tt.b, tt.a); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Distance() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceBetween(t *testing.T) {
	a := Record{Name: "A", X: 5}
	b := Record{Name: "B", Y: 5}
	if got, want := DistanceBetween(a, b), math.Sqrt(50); math.Abs(got-want) > 1e-12 {
		t.Errorf("DistanceBetween() = %v, want %v", got, want)
	}
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		in   string
		want Class
	}{
		{"G3V", ClassG},
		{"g2v", ClassG},
		{"  M4.5Ve", ClassM},
		{"O9", ClassO},
		{"B5V", ClassB},
		{"A0", ClassA},
		{"F7IV", ClassF},
		{"K1III", ClassK},
		{"", ClassUnknown},
		{"   ", ClassUnknown},
		{"DA2", ClassUnknown},
		{"L3", ClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseClass(tt.in); got != tt.want {
				t.Errorf("ParseClass(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassString(t *testing.T) {
	if got := ClassK.String(); got != "K" {
		t.Errorf("ClassK.String() = %q, want K", got)
	}
	if got := Class(99).String(); got != "?" {
		t.Errorf("Class(99).String() = %q, want ?", got)
	}
}

func TestRecordLabel(t *testing.T) {
	name, spec := Record{Name: "Amateru", Spectral: " K0III "}.Label()
	if name != "Amateru" || spec != "K0III" {
		t.Errorf("Label() = %q, %q", name, spec)
	}
}

func TestRecordIsMultiple(t *testing.T) {
	if (Record{Name: "Sol"}).IsMultiple() {
		t.Error("single star reported as multiple")
	}
	if !(Record{Name: "Alpha Centauri A", System: "Alpha Centauri"}).IsMultiple() {
		t.Error("component star not reported as multiple")
	}
}
