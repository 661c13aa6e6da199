package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// fixedSampler always returns the same value, used to force reflect/refract branches
type fixedSampler struct {
	value float64
}

func (f fixedSampler) Get1D() float64 { return f.value }

func (f fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(f.value, f.value)
}

func (f fixedSampler) Get3D() core.Vec3 {
	return core.NewVec3(f.value, f.value, f.value)
}

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.NewRayAtTime(core.NewVec3(-1, 1, 0), rayDirection, 0.4)

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	for i := 0; i < 50; i++ {
		result, scattered := glass.Scatter(ray, hit, sampler)
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}

		expectedAttenuation := core.NewVec3(1.0, 1.0, 1.0)
		if result.Attenuation != expectedAttenuation {
			t.Errorf("Expected attenuation %v, got %v", expectedAttenuation, result.Attenuation)
		}
		if result.Scattered.Time != 0.4 {
			t.Errorf("Scattered ray should keep time 0.4, got %f", result.Scattered.Time)
		}
	}
}

func TestDielectric_RefractsWhenReflectanceLoses(t *testing.T) {
	glass := NewDielectric(1.5)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	hit := HitRecord{Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	// Normal incidence reflectance is 0.04; a draw of 0.99 always refracts
	result, _ := glass.Scatter(ray, hit, fixedSampler{value: 0.99})
	if result.Scattered.Direction.Subtract(core.NewVec3(0, -1, 0)).Length() > 1e-12 {
		t.Errorf("Expected straight-through refraction, got %v", result.Scattered.Direction)
	}

	// A draw of 0 always reflects
	result, _ = glass.Scatter(ray, hit, fixedSampler{value: 0})
	if result.Scattered.Direction.Subtract(core.NewVec3(0, 1, 0)).Length() > 1e-12 {
		t.Errorf("Expected reflection back up, got %v", result.Scattered.Direction)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Inside the glass at grazing incidence: ratio 1.5, sin(theta) ~ 1
	direction := core.NewVec3(1, 0.05, 0).Normalize()
	ray := core.NewRay(core.NewVec3(-1, -0.05, 0), direction)
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, -1, 0), // flipped to oppose the ray
		FrontFace: false,
	}

	cosTheta := math.Min(direction.Negate().Dot(hit.Normal), 1.0)
	if !CannotRefract(cosTheta, 1.5) {
		t.Fatalf("Expected total internal reflection at cos=%f", cosTheta)
	}

	// Even a draw that would refract must reflect
	result, ok := glass.Scatter(ray, hit, fixedSampler{value: 0.999})
	if !ok {
		t.Fatal("Dielectric should always scatter")
	}
	expected := core.Reflect(direction, hit.Normal)
	if result.Scattered.Direction.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected reflection %v, got %v", expected, result.Scattered.Direction)
	}
	if result.Scattered.Direction.Y >= 0 {
		t.Errorf("Reflected ray should stay inside the glass, got %v", result.Scattered.Direction)
	}
}

func TestCannotRefract(t *testing.T) {
	tests := []struct {
		name     string
		cosTheta float64
		ratio    float64
		expected bool
	}{
		{"entering glass at grazing angle", 0.01, 1 / 1.5, false},
		{"exiting at normal incidence", 1.0, 1.5, false},
		{"exiting just under critical angle", math.Cos(math.Asin(1/1.5) - 0.01), 1.5, false},
		{"exiting past critical angle", math.Cos(math.Asin(1/1.5) + 0.01), 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CannotRefract(tt.cosTheta, tt.ratio); got != tt.expected {
				t.Errorf("CannotRefract(%f, %f) = %v, expected %v", tt.cosTheta, tt.ratio, got, tt.expected)
			}
		})
	}
}

func TestReflectance(t *testing.T) {
	// Normal incidence: ((1-n)/(1+n))² is the same for n and 1/n
	front := Reflectance(1.0, 1.0/1.5)
	back := Reflectance(1.0, 1.5)
	if math.Abs(front-0.04) > 1e-12 || math.Abs(back-0.04) > 1e-12 {
		t.Errorf("Expected R0 = 0.04, got %f and %f", front, back)
	}

	// Grazing incidence reflects everything
	if r := Reflectance(0.0, 1.0/1.5); math.Abs(r-1.0) > 1e-12 {
		t.Errorf("Expected full reflectance at grazing incidence, got %f", r)
	}

	// Monotone in angle
	prev := Reflectance(1.0, 1.0/1.5)
	for cos := 0.9; cos >= 0; cos -= 0.1 {
		r := Reflectance(cos, 1.0/1.5)
		if r < prev {
			t.Errorf("Reflectance should increase toward grazing: %f < %f at cos=%f", r, prev, cos)
		}
		prev = r
	}
}
