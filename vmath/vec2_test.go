package vmath

import (
	"math"
	"testing"
)

func TestNormalizeZeroSafe(t *testing.T) {
	unit, length, ok := Normalize(Vec2{}, 1e-9)
	if ok {
		t.Fatal("Expected ok=false for zero vector")
	}
	if length != 0 || unit != (Vec2{}) {
		t.Errorf("Expected zero result, got unit=%v length=%f", unit, length)
	}
	if !unit.IsFinite() {
		t.Error("Expected finite unit vector")
	}
}

func TestNormalizeUnitLength(t *testing.T) {
	tests := []Vec2{{3, 4}, {-120, 0}, {0.5, -0.5}}
	for _, v := range tests {
		unit, length, ok := Normalize(v, 1e-9)
		if !ok {
			t.Fatalf("Expected ok for %v", v)
		}
		if math.Abs(unit.Len()-1) > 1e-12 {
			t.Errorf("Expected unit length for %v, got %f", v, unit.Len())
		}
		if math.Abs(length-v.Len()) > 1e-12 {
			t.Errorf("Expected length %f, got %f", v.Len(), length)
		}
	}
}
