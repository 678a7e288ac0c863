package config

import "testing"

func TestValidateURL(t *testing.T) {
	valid := []string{"https://bank.example.com", " http://localhost:5000/api/ "}
	for _, raw := range valid {
		if _, err := validateURL(raw); err != nil {
			t.Errorf("validateURL(%q) = %v", raw, err)
		}
	}

	invalid := []string{"", "bank.example.com", "ftp://bank.example.com", "https://"}
	for _, raw := range invalid {
		if _, err := validateURL(raw); err == nil {
			t.Errorf("validateURL(%q) accepted", raw)
		}
	}
}

func TestSettableKeys(t *testing.T) {
	if !settable("wire.cancel_policy") || !settable("server.url") {
		t.Error("expected user settings to be settable")
	}
	if settable("auth.token") {
		t.Error("auth.token must only change through login and logout")
	}
}
