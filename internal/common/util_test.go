package common

import "testing"

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("Secret123")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestBearerValue(t *testing.T) {
	if got := BearerValue("abc"); got != "Bearer abc" {
		t.Fatalf("unexpected header value %q", got)
	}
}

func TestMakeRandHexString(t *testing.T) {
	a, err := MakeRandHexString(16)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MakeRandHexString(16)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 32 {
		t.Fatalf("want 32 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatalf("two calls returned the same value %q", a)
	}
}
