package core

import (
	"math"
	"testing"
)

func TestVec3_BasicOperations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Clamp", NewVec3(-1, 0.5, 2).Clamp(0, 0.999), NewVec3(0, 0.5, 0.999)},
		{"Lerp midpoint", NewVec3(1, 1, 1).Lerp(NewVec3(0.5, 0.7, 1.0), 0.5), NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}

	if dot := a.Dot(b); dot != 12 {
		t.Errorf("Expected dot product 12, got %f", dot)
	}
	if length := NewVec3(3, 4, 0).Length(); length != 5 {
		t.Errorf("Expected length 5, got %f", length)
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := NewVec3(0, 3, 4).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Normalized vector should have unit length, got %f", n.Length())
	}
	if !n.Equals(NewVec3(0, 0.6, 0.8)) {
		t.Errorf("Expected (0, 0.6, 0.8), got %v", n)
	}

	zero := Vec3{}.Normalize()
	if !zero.Equals(Vec3{}) {
		t.Errorf("Normalizing the zero vector should return zero, got %v", zero)
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"zero", NewVec3(0, 0, 0), true},
		{"tiny components", NewVec3(1e-9, -1e-9, 5e-10), true},
		{"one component large", NewVec3(1e-9, 1e-3, 0), false},
		{"unit", NewVec3(1, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.NearZero(); got != tt.expected {
				t.Errorf("NearZero(%v) = %v, expected %v", tt.v, got, tt.expected)
			}
		})
	}
}

func TestReflect_NegatesNormalComponent(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 1, 0).Normalize(),
		NewVec3(-0.3, 0.2, 0.9).Normalize(),
	}
	incoming := []Vec3{
		NewVec3(1, -1, 0),
		NewVec3(0.2, -0.7, 0.4),
		NewVec3(-3, 2, 5),
	}

	for _, n := range normals {
		for _, v := range incoming {
			r := Reflect(v, n)
			if math.Abs(r.Dot(n)+v.Dot(n)) > 1e-12 {
				t.Errorf("dot(reflect(v,n), n) = %f, expected %f", r.Dot(n), -v.Dot(n))
			}
			if math.Abs(r.Length()-v.Length()) > 1e-12 {
				t.Errorf("Reflection should preserve length: %f vs %f", r.Length(), v.Length())
			}
		}
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	normal := NewVec3(0, 1, 0)
	incoming := NewVec3(1, -1, 0).Normalize() // 45 degrees
	eta := 1.0 / 1.5

	refracted := Refract(incoming, normal, eta)

	sinIn := math.Sqrt(1 - math.Pow(incoming.Negate().Dot(normal), 2))
	sinOut := math.Sqrt(1 - math.Pow(refracted.Negate().Dot(normal), 2))

	if math.Abs(sinOut-eta*sinIn) > 1e-9 {
		t.Errorf("Snell's law violated: sinOut=%f, eta*sinIn=%f", sinOut, eta*sinIn)
	}
	if math.Abs(refracted.Length()-1) > 1e-9 {
		t.Errorf("Refracted unit vector should stay unit length, got %f", refracted.Length())
	}
	if refracted.Y >= 0 {
		t.Errorf("Refracted ray should continue into the surface, got %v", refracted)
	}
}

func TestRefract_NormalIncidence(t *testing.T) {
	refracted := Refract(NewVec3(0, -1, 0), NewVec3(0, 1, 0), 1.0/1.5)
	if refracted.Subtract(NewVec3(0, -1, 0)).Length() > 1e-12 {
		t.Errorf("Normal incidence should not bend, got %v", refracted)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRayAtTime(NewVec3(1, 0, 0), NewVec3(0, 2, 0), 0.25)
	if p := ray.At(1.5); !p.Equals(NewVec3(1, 3, 0)) {
		t.Errorf("Expected (1,3,0), got %v", p)
	}
	if ray.Time != 0.25 {
		t.Errorf("Expected time 0.25, got %f", ray.Time)
	}
	if NewRay(Vec3{}, NewVec3(0, 0, 1)).Time != 0 {
		t.Error("NewRay should default to time zero")
	}
}
