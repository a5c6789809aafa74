package common

import (
	"errors"
	"testing"
)

// ---------- GenerateRandByteArray ----------

func TestGenerateRandByteArray_Basic(t *testing.T) {
	const n = 24
	buf := GenerateRandByteArray(n)
	if len(buf) != n {
		t.Fatalf("expected length %d, got %d", n, len(buf))
	}
}

func TestGenerateRandByteArray_EntropyHint(t *testing.T) {
	const n = 32
	a := GenerateRandByteArray(n)
	b := GenerateRandByteArray(n)
	if string(a) == string(b) {
		t.Logf("warning: two GenerateRandByteArray(%d) results are identical; extremely unlikely", n)
	}
}

// ---------- RandomIntInRange ----------

func TestRandomIntInRange_StaysInBounds(t *testing.T) {
	for i := 0; i < 2000; i++ {
		v, err := RandomIntInRange(1000, 9999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v < 1000 || v > 9999 {
			t.Fatalf("value %d out of range", v)
		}
	}
}

func TestRandomIntInRange_SinglePoint(t *testing.T) {
	v, err := RandomIntInRange(7, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7 {
		t.Fatalf("expected 7, got %d", v)
	}
}

func TestRandomIntInRange_InvalidRange(t *testing.T) {
	if _, err := RandomIntInRange(10, 1); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

// ---------- sentinels ----------

func TestNotFoundSentinelsWrapBase(t *testing.T) {
	for _, err := range []error{ErrAccountNotFound, ErrPostNotFound, ErrCodeNotFound} {
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("%v must match ErrNotFound", err)
		}
	}
	if errors.Is(ErrAccountNotFound, ErrPostNotFound) {
		t.Fatal("account and post not-found must stay distinguishable")
	}
}

func TestIsSessionError(t *testing.T) {
	if !IsSessionError(ErrTokenExpired) || !IsSessionError(ErrTokenMissing) {
		t.Fatal("expected session errors to be recognised")
	}
	if IsSessionError(ErrForbidden) {
		t.Fatal("ErrForbidden is not a session error")
	}
}
