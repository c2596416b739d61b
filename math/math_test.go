package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	// Addition
	result := v1.Add(v2)
	expected := NewVec3(5, 7, 9)
	if result != expected {
		t.Errorf("Add: expected %v, got %v", expected, result)
	}

	// Subtraction
	result = v2.Sub(v1)
	expected = NewVec3(3, 3, 3)
	if result != expected {
		t.Errorf("Sub: expected %v, got %v", expected, result)
	}

	// Componentwise multiplication
	result = v1.MulVec(v2)
	expected = NewVec3(4, 10, 18)
	if result != expected {
		t.Errorf("MulVec: expected %v, got %v", expected, result)
	}

	// Dot product
	dot := v1.Dot(v2)
	expectedDot := float32(32) // 1*4 + 2*5 + 3*6
	if dot != expectedDot {
		t.Errorf("Dot: expected %v, got %v", expectedDot, dot)
	}

	// Cross product (Right x Up = Front in right-handed system)
	cross := Vec3Right.Cross(Vec3Up)
	if cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0)
	normalized := v.Normalize()
	expected := NewVec3(1, 0, 0)

	if normalized != expected {
		t.Errorf("Normalize: expected %v, got %v", expected, normalized)
	}

	if Vec3Zero.Normalize() != Vec3Zero {
		t.Errorf("Normalize: zero vector should stay zero")
	}
}

func TestVec3FromSlice(t *testing.T) {
	assert.Equal(t, NewVec3(1, 2, 3), Vec3FromSlice([]float32{1, 2, 3, 4}))
	assert.Equal(t, NewVec3(1, 0, 0), Vec3FromSlice([]float32{1}))
	assert.Equal(t, Vec3Zero, Vec3FromSlice(nil))
}

func TestMat4Identity(t *testing.T) {
	m := Mat4Identity()

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			expected := float32(0)
			if i == j {
				expected = 1
			}
			if m[i][j] != expected {
				t.Errorf("Identity: expected [%d][%d] = %v, got %v", i, j, expected, m[i][j])
			}
		}
	}
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	if m[3][0] != 1 || m[3][1] != 2 || m[3][2] != 3 {
		t.Errorf("Translation: expected (1,2,3), got (%v,%v,%v)", m[3][0], m[3][1], m[3][2])
	}

	point := NewVec4(0, 0, 0, 1)
	result := point.MulMat(m)

	if result.ToVec3() != translation {
		t.Errorf("Translation: expected %v, got %v", translation, result.ToVec3())
	}
}

func TestMat4TranslateScale(t *testing.T) {
	tr := NewVec3(4, -2, 7)
	sc := NewVec3(2, 3, 0.5)
	m := Mat4TranslateScale(tr, sc)

	assert.Equal(t, tr, m.MulVec3(Vec3Zero), "origin maps to the translation")
	assert.Equal(t, NewVec3(6, -2, 7), m.MulVec3(Vec3Right))
	assert.Equal(t, NewVec3(4, 1, 7), m.MulVec3(Vec3Up))
	assert.Equal(t, NewVec3(4, -2, 7.5), m.MulVec3(Vec3Front))

	want := mgl32.Translate3D(4, -2, 7).Mul4(mgl32.Scale3D(2, 3, 0.5))
	assert.Equal(t, want, m.ToMgl())
}

func TestMat4LookAt(t *testing.T) {
	eye := NewVec3(0, 0, 5)
	target := NewVec3(0, 0, 0)

	m := Mat4LookAt(eye, target, Vec3Up)

	// The view matrix should transform the eye position to origin
	result := m.MulVec(eye.ToVec4(1))

	tolerance := 0.001
	if math.Abs(float64(result.X)) > tolerance ||
		math.Abs(float64(result.Y)) > tolerance ||
		math.Abs(float64(result.Z)) > tolerance {
		t.Errorf("LookAt: expected eye to transform to origin, got (%v,%v,%v)", result.X, result.Y, result.Z)
	}
}

func TestMat4LookAtMatchesMgl(t *testing.T) {
	eye := NewVec3(0, 80, 80)
	target := Vec3Zero
	up := NewVec3(0, 1, 0)

	got := Mat4LookAt(eye, target, up).ToMgl()
	want := mgl32.LookAtV(eye.ToMgl(), target.ToMgl(), up.ToMgl())
	assertMatNear(t, want, got, 1e-5)
}

func TestMat4OrthographicMatchesMgl(t *testing.T) {
	got := Mat4Orthographic(-100, 100, -100, 100, 0.01, 100).ToMgl()
	want := mgl32.Ortho(-100, 100, -100, 100, 0.01, 100)
	assertMatNear(t, want, got, 1e-6)
}

func TestMat4PerspectiveMatchesMgl(t *testing.T) {
	fov := float32(math.Pi / 4)
	got := Mat4Perspective(fov, 16.0/9.0, 0.1, 100).ToMgl()
	want := mgl32.Perspective(fov, 16.0/9.0, 0.1, 100)
	assertMatNear(t, want, got, 1e-5)
}

func TestMat4Inverse(t *testing.T) {
	m := Mat4LookAt(NewVec3(3, 4, 5), NewVec3(0, 1, 0), Vec3Up).
		Mul(Mat4Perspective(1, 1.5, 0.1, 50))

	got := m.Inverse().ToMgl()
	want := m.ToMgl().Inv()
	assertMatNear(t, want, got, 1e-3)
	assertMatNear(t, mgl32.Ident4(), m.Mul(m.Inverse()).ToMgl(), 1e-4)
}

func TestMat4InverseSingular(t *testing.T) {
	assert.Equal(t, Mat4Identity(), Mat4Zero().Inverse())
}

func TestMat4MglRoundTrip(t *testing.T) {
	m := Mat4TranslateScale(NewVec3(1, 2, 3), NewVec3(4, 5, 6))
	assert.Equal(t, m, Mat4FromMgl(m.ToMgl()))
}

func TestQuaternionRotation(t *testing.T) {
	// 90 degree rotation around Y axis
	q := QuaternionFromAxisAngle(Vec3Up, float32(math.Pi/2))

	result := q.RotateVector(Vec3Right)

	assert.InDelta(t, 0, result.X, 0.001)
	assert.InDelta(t, 0, result.Y, 0.001)
	assert.InDelta(t, -1, result.Z, 0.001)
}

func TestQuaternionRotateAround(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, float32(math.Pi))
	pivot := NewVec3(1, 0, 0)

	result := q.RotateAround(NewVec3(2, 5, 0), pivot)

	assert.InDelta(t, 0, result.X, 0.001)
	assert.InDelta(t, 5, result.Y, 0.001)
	assert.InDelta(t, 0, result.Z, 0.001)
	assert.Equal(t, QuaternionIdentity().RotateAround(NewVec3(2, 5, 0), pivot), NewVec3(2, 5, 0))
}

func assertMatNear(t *testing.T, want, got mgl32.Mat4, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d: want %v got %v", i, want, got)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4Identity()
	m2 := Mat4Identity()

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}
