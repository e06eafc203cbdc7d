package products

import "testing"

func TestLocalImageFor(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Fresh Tomatoes", "/images/tomato.jpg"},
		{"potato (5kg bag)", "/images/potato.jpg"},
		{"Red Onions", "/images/onion.jpg"},
		{"Buffalo Milk", "/images/milk.jpg"},
		{"Wheat Flour", "/images/placeholder.jpg"},
		{"", "/images/placeholder.jpg"},
	}
	for _, c := range cases {
		if got := localImageFor(c.name); got != c.want {
			t.Errorf("localImageFor(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}
