package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPasswordHash("correct horse battery", hash) {
		t.Fatal("matching password rejected")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Fatal("non-matching password accepted")
	}
}

func TestValidPasswordLength(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"", false},
		{"short", false},
		{"eight888", true},
		{string(make([]byte, 129)), false},
	}
	for _, tc := range cases {
		if got := ValidPasswordLength(tc.password); got != tc.want {
			t.Errorf("ValidPasswordLength(%d chars) = %v, want %v", len(tc.password), got, tc.want)
		}
	}
}
