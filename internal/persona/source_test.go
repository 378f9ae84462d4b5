package persona

import (
	"bytes"
	"io"
	"testing"
)

func TestNewSourceReproducible(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := range 100 {
		x, y := a.IntN(1_000_000), b.IntN(1_000_000)
		if x != y {
			t.Fatalf("draw %d: %d != %d for identical seeds", i, x, y)
		}
	}
}

func TestNewSourceSeedsDiffer(t *testing.T) {
	a := NewSource(1)
	b := NewSource(2)
	same := 0
	for range 20 {
		if a.Int64N(1<<40) == b.Int64N(1<<40) {
			same++
		}
	}
	if same == 20 {
		t.Error("different seeds produced identical streams")
	}
}

func TestCryptoSourceBounds(t *testing.T) {
	var src CryptoSource
	for range 500 {
		if v := src.IntN(7); v < 0 || v >= 7 {
			t.Fatalf("IntN(7) = %d, out of range", v)
		}
		if v := src.Int64N(1 << 50); v < 0 || v >= 1<<50 {
			t.Fatalf("Int64N = %d, out of range", v)
		}
	}
}

func TestCryptoSourcePanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Int64N(0) should panic")
		}
	}()
	CryptoSource{}.Int64N(0)
}

func TestReaderReproducible(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)

	if _, err := io.ReadFull(Reader(NewSource(9)), a); err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := io.ReadFull(Reader(NewSource(9)), b); err != nil {
		t.Fatalf("read: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Error("readers over identical seeds produced different bytes")
	}
	if bytes.Equal(a, make([]byte, 32)) {
		t.Error("reader produced only zero bytes")
	}
}

func TestChance(t *testing.T) {
	src := NewSource(1)
	for range 100 {
		if chance(src, 0) {
			t.Fatal("chance(0) returned true")
		}
		if !chance(src, 100) {
			t.Fatal("chance(100) returned false")
		}
	}
}
