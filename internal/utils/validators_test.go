package utils

import "testing"

func TestIsValidAccount(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"player1", true},
		{"  spaced  ", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}
	for _, tc := range cases {
		if got := IsValidAccount(tc.name); got != tc.want {
			t.Errorf("IsValidAccount(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestIsValidPassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"123456", true},
		{"hunter2!", true},
		{"12345", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidPassword(tc.password); got != tc.want {
			t.Errorf("IsValidPassword(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}
