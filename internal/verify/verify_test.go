package verify

import "testing"

func TestBytesIdentical(t *testing.T) {
	a := []byte("the quick brown fox")
	if err := Bytes(a, append([]byte(nil), a...)); err != nil {
		t.Fatalf("Bytes: unexpected error: %v", err)
	}
}

func TestBytesMismatch(t *testing.T) {
	want := []byte("the quick brown fox")
	got := []byte("the quick brown box")
	err := Bytes(want, got)
	if err == nil {
		t.Fatal("Bytes: expected mismatch error, got nil")
	}
	if _, ok := err.(*MismatchError); !ok {
		t.Fatalf("error type = %T, want *MismatchError", err)
	}
}

func TestBytesLengthMismatch(t *testing.T) {
	want := []byte("12345")
	got := []byte("1234")
	if err := Bytes(want, got); err == nil {
		t.Fatal("Bytes: expected error for length mismatch, got nil")
	}
}
