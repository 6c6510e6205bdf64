package services

import "testing"

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Overheat1", false},
		{"too short", "Ab1", true},
		{"no uppercase", "alllower1", true},
		{"no digit", "NoDigitsHere", true},
		{"exactly eight", "Gariyng1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestEmailRegex(t *testing.T) {
	valid := []string{"fundi@example.com", "juma.otieno@pitstop.co.ke", "a+b@x.io"}
	for _, email := range valid {
		if !emailRegex.MatchString(email) {
			t.Errorf("expected %q to be accepted", email)
		}
	}

	invalid := []string{"", "not-an-email", "missing@tld", "@nouser.com"}
	for _, email := range invalid {
		if emailRegex.MatchString(email) {
			t.Errorf("expected %q to be rejected", email)
		}
	}
}
