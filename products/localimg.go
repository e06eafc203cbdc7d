package products

import (
	"strings"

	"go.mongodb.org/mongo-driver/mongo/options"
)

// Stock images served from the /images static route for products uploaded
// without a photo. Matched on a substring of the product name.
var localImages = map[string]string{
	"tomato": "/images/tomato.jpg",
	"potato": "/images/potato.jpg",
	"onion":  "/images/onion.jpg",
	"milk":   "/images/milk.jpg",
}

const defaultImage = "/images/placeholder.jpg"

func localImageFor(name string) string {
	lower := strings.ToLower(name)
	for key, path := range localImages {
		if strings.Contains(lower, key) {
			return path
		}
	}
	return defaultImage
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(map[string]interface{}{"created_at": -1})
}
