package otp

import "testing"

func TestGenerate(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(code) != Digits {
			t.Fatalf("Generate() = %q, want %d digits", code, Digits)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("Generate() = %q contains non-digit", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 40 {
		t.Errorf("Generate() produced only %d distinct codes out of 50", len(seen))
	}
}

func TestEqual(t *testing.T) {
	if !Equal("123456", " 123456 ") {
		t.Error("Equal() should ignore surrounding spaces")
	}
	if Equal("123456", "123457") || Equal("123456", "12345") || Equal("", "") {
		t.Error("Equal() accepted a wrong code")
	}
}
