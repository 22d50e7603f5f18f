package user

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
	salt, err := GenerateSaltHex()
	if err != nil {
		t.Fatalf("GenerateSaltHex: %v", err)
	}
	hash, err := HashPassword("p@ssw0rd", salt)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if !VerifyPassword("p@ssw0rd", salt, hash) {
		t.Fatalf("expected verify ok")
	}
	if VerifyPassword("wrong", salt, hash) {
		t.Fatalf("expected verify fail")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	salt, err := GenerateSaltHex()
	if err != nil {
		t.Fatalf("GenerateSaltHex: %v", err)
	}
	if _, err := HashPassword("", salt); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestRolesRoundTrip(t *testing.T) {
	u := User{Roles: "user, admin,,"}
	got := u.RolesSlice()
	if len(got) != 2 || got[0] != "user" || got[1] != "admin" {
		t.Fatalf("unexpected roles %v", got)
	}
	if joined := RolesJoin(got); joined != "user,admin" {
		t.Fatalf("unexpected join %q", joined)
	}
}
