package validation

import (
	"errors"
	"testing"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=manager superintendent"`
	Port     string `json:"port_locode" validate:"locode"`
}

func TestStruct(t *testing.T) {
	ok := registerRequest{Email: "a@b.io", Password: "longenough", Role: "manager", Port: "NLRTM"}
	if err := Struct(ok); err != nil {
		t.Fatalf("Struct(valid) = %v", err)
	}

	bad := registerRequest{Email: "nope", Password: "short", Role: "captain", Port: "nl-rt"}
	err := Struct(bad)
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Struct(invalid) error type = %T", err)
	}
	for _, field := range []string{"email", "password", "role", "port_locode"} {
		if _, found := verr.Fields[field]; !found {
			t.Errorf("missing field error for %q in %v", field, verr.Fields)
		}
	}
	if verr.Fields["password"] != "must be at least 8 characters" {
		t.Errorf("password message = %q", verr.Fields["password"])
	}
}

func TestLocode(t *testing.T) {
	type req struct {
		Code string `json:"code" validate:"locode"`
	}
	tests := map[string]bool{
		"":      true,
		"NLRTM": true,
		"USNY2": true,
		"nlrtm": false,
		"NLRT":  false,
		"N1RTM": false,
		"NLRT1": false, // digits 0 and 1 are not used in UN/LOCODE
	}
	for code, want := range tests {
		got := Struct(req{Code: code}) == nil
		if got != want {
			t.Errorf("locode %q valid = %v, want %v", code, got, want)
		}
	}
}
