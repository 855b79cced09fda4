package domain

import "testing"

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"minimum length accepted", "ab_", false},
		{"too short rejected", "ab", true},
		{"letters digits underscore", "alice_42", false},
		{"dash rejected", "alice-42", true},
		{"space rejected", "alice 42", true},
		{"empty rejected", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.username)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %q", tc.username)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.username, err)
			}
			if tc.wantErr && !IsValidation(err) {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"minimum complexity accepted", "Abcde1", false},
		{"too short rejected", "Abc1", true},
		{"missing upper rejected", "abcdef1", true},
		{"missing lower rejected", "ABCDEF1", true},
		{"missing digit rejected", "Abcdefg", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %q", tc.password)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.password, err)
			}
		})
	}
}

func TestValidationErrorNamesFirstField(t *testing.T) {
	err := ValidateUsername("ab")
	fe, ok := err.(*FieldError)
	if !ok {
		t.Fatalf("expected *FieldError, got %T", err)
	}
	if fe.Field != "username" {
		t.Fatalf("expected field username, got %s", fe.Field)
	}
}
