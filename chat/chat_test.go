package chat

import (
	"errors"
	"net/http"
	"testing"

	"farmermall/models"
)

func TestHistoryAccess(t *testing.T) {
	farmer := models.User{ID: "f1", Role: models.RoleFarmer}
	buyer := models.User{ID: "b1", Role: models.RoleBuyer}
	lookupErr := errors.New("not found")

	cases := []struct {
		name       string
		user       models.User
		uerr       error
		other      models.User
		oerr       error
		wantStatus int
	}{
		{"farmer-buyer pair", farmer, nil, buyer, nil, http.StatusOK},
		{"buyer-farmer pair", buyer, nil, farmer, nil, http.StatusOK},
		{"same role", buyer, nil, models.User{Role: models.RoleBuyer}, nil, http.StatusForbidden},
		{"user lookup failed", models.User{}, lookupErr, buyer, nil, http.StatusNotFound},
		{"other lookup failed", farmer, nil, models.User{}, lookupErr, http.StatusNotFound},
		{"both lookups failed", models.User{}, lookupErr, models.User{}, lookupErr, http.StatusNotFound},
	}
	for _, c := range cases {
		status, _ := historyAccess(c.user, c.uerr, c.other, c.oerr)
		if status != c.wantStatus {
			t.Errorf("%s: status = %d, want %d", c.name, status, c.wantStatus)
		}
	}
}
