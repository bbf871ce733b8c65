// Package fixed implements the three signed fixed-point numeric formats
// used by the rasterizer core: a 16-bit 12.4, a 32-bit 24.4, and a 16-bit
// 8.8. Each type carries an implicit scale and no hidden normalization;
// every operator below preserves its declared output type exactly.
package fixed

import "math"

// Q12_4 is a signed 12.4 fixed-point number: 4 fractional bits in a
// 16-bit word. Used for screen-space coordinates and edge increments.
type Q12_4 int16

const fracQ12_4 = 4

// FromInt12_4 builds a Q12_4 representing the integer n, no fraction.
func FromInt12_4(n int16) Q12_4 { return Q12_4(n) << fracQ12_4 }

// Half12_4 is the constant 0.5 in 12.4.
func Half12_4() Q12_4 { return Q12_4(1 << (fracQ12_4 - 1)) }

// One12_4 is the constant 1.0 in 12.4.
func One12_4() Q12_4 { return Q12_4(1 << fracQ12_4) }

// Two12_4 is the constant 2.0 in 12.4.
func Two12_4() Q12_4 { return Q12_4(2 << fracQ12_4) }

func (a Q12_4) IsPositive() bool { return a > 0 }
func (a Q12_4) IsNegative() bool { return a < 0 }
func (a Q12_4) IsZero() bool     { return a == 0 }

// Truncate returns the integer part, discarding the fraction.
func (a Q12_4) Truncate() int16 { return int16(a) >> fracQ12_4 }

func (a Q12_4) Add(b Q12_4) Q12_4 { return a + b }
func (a Q12_4) Sub(b Q12_4) Q12_4 { return a - b }
func (a Q12_4) Neg() Q12_4        { return -a }
func (a Q12_4) Shl(n uint) Q12_4  { return Q12_4(int16(a) << n) }

// Mul multiplies two 12.4 operands, producing a 24.4 result via a 32-bit
// intermediate product right-shifted by 4.
func (a Q12_4) Mul(b Q12_4) Q24_4 {
	return Q24_4((int32(a) * int32(b)) >> fracQ12_4)
}

// ToQ24_4 sign-extends a 12.4 value into 24.4; the scale is unchanged.
func (a Q12_4) ToQ24_4() Q24_4 { return Q24_4(a) }

// FromFloat64Q12_4 builds a Q12_4 from a real number; used at the
// scene/framebuffer boundary, never inside the core state machine.
func FromFloat64Q12_4(v float64) Q12_4 { return Q12_4(roundToInt(v * 16.0)) }

// ToQ8_8 widens a 12.4 value into 8.8 by shifting its four fractional
// bits up to eight. Overflows when |a| >= 128 are the caller's
// responsibility.
func (a Q12_4) ToQ8_8() Q8_8 { return Q8_8(int16(a) << fracQ12_4) }

// Q24_4 is a signed 24.4 fixed-point number stored in 32 bits. Used for
// edge-function values and triangle area.
type Q24_4 int32

const fracQ24_4 = 4

// Zero24_4 is the additive identity in 24.4.
func Zero24_4() Q24_4 { return 0 }

// One24_4 is the constant 1.0 in 24.4.
func One24_4() Q24_4 { return Q24_4(1 << fracQ24_4) }

func (a Q24_4) IsPositive() bool { return a > 0 }
func (a Q24_4) IsNegative() bool { return a < 0 }
func (a Q24_4) IsZero() bool     { return a == 0 }
func (a Q24_4) Neg() Q24_4       { return -a }
func (a Q24_4) Shl(n uint) Q24_4 { return Q24_4(int32(a) << n) }

func (a Q24_4) Add(b Q24_4) Q24_4 { return a + b }
func (a Q24_4) Sub(b Q24_4) Q24_4 { return a - b }

// AddQ12_4 sign-extends b into 24.4 and adds it.
func (a Q24_4) AddQ12_4(b Q12_4) Q24_4 { return a + b.ToQ24_4() }

// Mul multiplies two 24.4 operands via a 64-bit intermediate product
// right-shifted by 4. This loses precision for large operands; a
// hardware-faithful implementation would use a saturating or widening
// multiplier here instead.
func (a Q24_4) Mul(b Q24_4) Q24_4 {
	return Q24_4((int64(a) * int64(b)) >> fracQ24_4)
}

// Div is a floating-point placeholder for 24.4 reciprocal division; a
// hardware implementation substitutes a fixed-point reciprocal unit.
func (a Q24_4) Div(b Q24_4) Q24_4 {
	return Q24_4(int32(float64(a) * 16.0 / float64(b)))
}

// ToQ8_8 narrows a 24.4 value into 8.8 by shifting the four extra
// fractional bits in. Lossless only when a fits the signed 8.8 range.
func (a Q24_4) ToQ8_8() Q8_8 { return Q8_8(int32(a) << fracQ24_4) }

// DivQ24P4 computes num/den rounded directly into 8.8, i.e.
// round(num * 256 / den).
func DivQ24P4(num, den Q24_4) Q8_8 {
	return Q8_8(roundToInt(float64(num) * 256.0 / float64(den)))
}

// ToFloat64 is a debug/test helper; never used in the core datapath.
func (a Q24_4) ToFloat64() float64 { return float64(a) / 16.0 }

// Q8_8 is a signed 8.8 fixed-point number. Used for barycentric weights,
// reciprocal-z, and depth.
type Q8_8 int16

const fracQ8_8 = 8

// Zero8_8 is the additive identity in 8.8.
func Zero8_8() Q8_8 { return 0 }

// One8_8 is the constant 1.0 in 8.8.
func One8_8() Q8_8 { return Q8_8(1 << fracQ8_8) }

func (a Q8_8) IsPositive() bool { return a > 0 }
func (a Q8_8) IsNegative() bool { return a < 0 }
func (a Q8_8) IsZero() bool     { return a == 0 }
func (a Q8_8) Neg() Q8_8        { return -a }

func (a Q8_8) Add(b Q8_8) Q8_8 { return a + b }
func (a Q8_8) Sub(b Q8_8) Q8_8 { return a - b }

// Mul multiplies two 8.8 operands via a 32-bit intermediate product
// right-shifted by 8.
func (a Q8_8) Mul(b Q8_8) Q8_8 {
	return Q8_8((int32(a) * int32(b)) >> fracQ8_8)
}

// Div is a floating-point placeholder for 8.8 reciprocal division.
func (a Q8_8) Div(b Q8_8) Q8_8 {
	return Q8_8(roundToInt(float64(a) * 256.0 / float64(b)))
}

// ToFloat64 is a debug/test helper; never used in the core datapath.
func (a Q8_8) ToFloat64() float64 { return float64(a) / 256.0 }

// FromFloat64Q8_8 builds a Q8_8 from a real number; used at the
// scene/framebuffer boundary, never inside the core state machine.
func FromFloat64Q8_8(v float64) Q8_8 { return Q8_8(roundToInt(v * 256.0)) }

// EdgeFunction returns (P.x-A.x)*(B.y-A.y) - (P.y-A.y)*(B.x-A.x) as a
// 24.4 value: twice the signed area of triangle (A, B, P). Negative when
// P lies left of the directed edge A->B under a screen-y-down
// convention; counter-clockwise triangles yield a negative total area.
func EdgeFunction(ax, ay, bx, by, px, py Q12_4) Q24_4 {
	return px.Sub(ax).Mul(by.Sub(ay)).Sub(py.Sub(ay).Mul(bx.Sub(ax)))
}

// roundToInt rounds half away from zero, matching the reference
// implementation's float-backed division placeholders.
func roundToInt(v float64) int32 {
	return int32(math.Round(v))
}
