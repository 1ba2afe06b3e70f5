package push

import "testing"

func TestIsValidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"exponent label", "ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]", true},
		{"exponent label unterminated", "ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx", false},
		{"expo label", "ExpoPushToken[xxxxxxxxxxxxxxxxxxxxxx]", true},
		{"expo label unterminated", "ExpoPushToken[xxxxxxxxxxxxxxxxxxxxxx", false},
		{"empty brackets", "ExpoPushToken[]", true},
		{"unknown label", "PushToken[xxxxxxxxxxxxxxxxxxxxxx]", false},
		{"uuid shape", "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx", true},
		{"uuid digits", "0f8fad5b-d9cb-469f-a165-70867728950e", true},
		{"uuid last group too long", "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxx", false},
		{"uuid uppercase", "0F8FAD5B-D9CB-469F-A165-70867728950E", false},
		{"empty", "", false},
		{"garbage", "not a token", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidToken(tt.token); got != tt.want {
				t.Errorf("IsValidToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
