package utils

import (
	"testing"

	"github.com/irapidev/xml2json/comm/config"
)

func TestGetToken(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"Bearer abc":    "abc",
		"bearer abc":    "abc",
		"abc":           "abc",
		"Bearer  abc  ": "abc",
	}
	for in, want := range cases {
		if got := GetToken(in); got != want {
			t.Errorf("GetToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	auth := &config.Get().Auth
	saved := *auth
	auth.Secret = "unit-test-secret"
	defer func() { *auth = saved }()

	token, err := GenerateToken("alice")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserName != "alice" {
		t.Fatalf("username = %q, want alice", claims.UserName)
	}

	if _, err := ParseToken(token + "tampered"); err == nil {
		t.Fatal("tampered token must not parse")
	}
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	auth := &config.Get().Auth
	saved := *auth
	auth.Secret = ""
	defer func() { *auth = saved }()

	if _, err := GenerateToken("alice"); err == nil {
		t.Fatal("expected an error with no secret configured")
	}
}
