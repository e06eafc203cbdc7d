package models

import "testing"

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleFarmer) || !ValidRole(RoleBuyer) {
		t.Error("farmer and buyer are the valid roles")
	}
	for _, role := range []string{"admin", "Farmer", "", "seller"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}

func TestValidChatPair(t *testing.T) {
	if !ValidChatPair(RoleFarmer, RoleBuyer) || !ValidChatPair(RoleBuyer, RoleFarmer) {
		t.Error("farmer-buyer pairs should be valid in both directions")
	}
	if ValidChatPair(RoleFarmer, RoleFarmer) || ValidChatPair(RoleBuyer, RoleBuyer) {
		t.Error("same-role pairs should be invalid")
	}
	if ValidChatPair("", RoleBuyer) || ValidChatPair(RoleFarmer, "admin") {
		t.Error("unknown roles should be invalid")
	}
}

func TestPublicStripsPassword(t *testing.T) {
	u := User{ID: "u1", Name: "Ana", Email: "a@b.c", Password: "hash", Role: RoleBuyer, Phone: "123"}
	p := u.Public()
	if p.ID != "u1" || p.Name != "Ana" || p.Email != "a@b.c" || p.Role != RoleBuyer || p.Phone != "123" {
		t.Errorf("public user lost fields: %+v", p)
	}
}
