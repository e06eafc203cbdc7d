package banners

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"farmermall/db"
	"farmermall/models"
	"farmermall/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// bannerDir holds static fallback images served when no banner records
// exist in the store yet.
const bannerDir = "./banner"

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Active returns the active banners in display order. When the store has
// none, any images found in the local banner directory are served instead
// so a fresh deployment still shows a carousel.
func Active(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var banners []models.Banner
	opts := options.Find().SetSort(map[string]interface{}{"display_order": 1})
	err := db.QueryDocs(ctx, db.BannersCollection, bson.M{"status": models.BannerActive}, &banners, opts)
	if err != nil {
		log.Printf("banner fetch error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch banners")
		return
	}

	for i := range banners {
		banners[i].ImageURL = utils.NormalizeMediaPath(banners[i].ImageURL)
	}

	if len(banners) == 0 {
		banners = fallbackBanners()
	}

	utils.RespondWithJSON(w, http.StatusOK, banners)
}

// fallbackBanners lists image files in the banner directory as synthetic
// active banners. A missing or empty directory yields an empty list.
func fallbackBanners() []models.Banner {
	entries, err := os.ReadDir(bannerDir)
	if err != nil {
		return []models.Banner{}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	banners := make([]models.Banner, 0, len(names))
	for i, name := range names {
		banners = append(banners, models.Banner{
			ID:           "local-" + name,
			ImageURL:     "/banner-files/" + name,
			DisplayOrder: i + 1,
			Status:       models.BannerActive,
		})
	}
	return banners
}
