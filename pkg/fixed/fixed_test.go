package fixed

import "testing"

func TestQ12_4RoundTrip(t *testing.T) {
	for n := int16(-2047); n < 2048; n += 37 {
		q := FromInt12_4(n)
		if got := q.Truncate(); got != n {
			t.Fatalf("FromInt12_4(%d).Truncate() = %d, want %d", n, got, n)
		}
	}
}

func TestQ12_4Arithmetic(t *testing.T) {
	cases := []struct {
		name string
		a, b Q12_4
		want Q12_4
	}{
		{"add", FromInt12_4(3), FromInt12_4(4), FromInt12_4(7)},
		{"sub", FromInt12_4(10), FromInt12_4(3), FromInt12_4(7)},
		{"neg", FromInt12_4(5), 0, FromInt12_4(-5)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got Q12_4
			switch c.name {
			case "add":
				got = c.a.Add(c.b)
			case "sub":
				got = c.a.Sub(c.b)
			case "neg":
				got = c.a.Neg()
			}
			if got != c.want {
				t.Fatalf("got %d, want %d", got, c.want)
			}
		})
	}
}

func TestQ12_4Mul(t *testing.T) {
	a := FromInt12_4(3)
	b := FromInt12_4(4)
	got := a.Mul(b)
	want := Q24_4(12 << fracQ24_4)
	if got != want {
		t.Fatalf("3*4 in 24.4 = %d, want %d", got, want)
	}
}

func TestQ24_4AddQ12_4(t *testing.T) {
	a := Q24_4(100)
	b := Q12_4(7)
	got := a.AddQ12_4(b)
	want := Q24_4(107)
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestQ24_4Mul(t *testing.T) {
	a := Q24_4(5 << fracQ24_4)
	b := Q24_4(3 << fracQ24_4)
	got := a.Mul(b)
	want := Q24_4(15 << fracQ24_4)
	if got != want {
		t.Fatalf("5*3 in 24.4 = %d, want %d", got, want)
	}
}

func TestDivQ24P4(t *testing.T) {
	// 4.0 / 2.0 == 2.0 in 8.8.
	num := Q24_4(4 << fracQ24_4)
	den := Q24_4(2 << fracQ24_4)
	got := DivQ24P4(num, den)
	want := Q8_8(2 << fracQ8_8)
	if got != want {
		t.Fatalf("DivQ24P4(4,2) = %d, want %d", got, want)
	}
}

func TestQ8_8Mul(t *testing.T) {
	a := Q8_8(1 << (fracQ8_8 - 1)) // 0.5
	b := Q8_8(1 << (fracQ8_8 - 1)) // 0.5
	got := a.Mul(b)
	want := Q8_8(1 << (fracQ8_8 - 2)) // 0.25
	if got != want {
		t.Fatalf("0.5*0.5 in 8.8 = %d, want %d", got, want)
	}
}

func TestEdgeFunctionAntisymmetry(t *testing.T) {
	ax, ay := FromInt12_4(0), FromInt12_4(0)
	bx, by := FromInt12_4(4), FromInt12_4(0)
	px, py := FromInt12_4(2), FromInt12_4(3)

	ab := EdgeFunction(ax, ay, bx, by, px, py)
	ba := EdgeFunction(bx, by, ax, ay, px, py)

	if ab != -ba {
		t.Fatalf("EdgeFunction(A,B,P) = %d, EdgeFunction(B,A,P) = %d, want negation", ab, ba)
	}
}

func TestEdgeFunctionConsistencyWithArea(t *testing.T) {
	// A right triangle; edge_function(A,B,C) must equal twice the signed
	// area, matching the triangle-setup total_area computation.
	ax, ay := FromInt12_4(0), FromInt12_4(0)
	bx, by := FromInt12_4(4), FromInt12_4(0)
	cx, cy := FromInt12_4(0), FromInt12_4(4)

	area := EdgeFunction(ax, ay, bx, by, cx, cy)
	// This vertex order yields a signed twice-area of -16 (4*4) under
	// the screen-y-down convention: negative is the "counter-clockwise,
	// visible" case the core expects.
	want := Q24_4(-16 << fracQ24_4)
	if area != want {
		t.Fatalf("area = %d, want %d", area, want)
	}
}

func TestQ8_8RangeBoundary(t *testing.T) {
	max := Q8_8(32767)
	if !max.IsPositive() {
		t.Fatalf("expected max Q8_8 value to be positive")
	}
	min := Q8_8(-32768)
	if !min.IsNegative() {
		t.Fatalf("expected min Q8_8 value to be negative")
	}
}
