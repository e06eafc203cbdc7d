package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"farmermall/db"
	"farmermall/models"
	"farmermall/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Users lists every account, passwords stripped.
func Users(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var users []models.User
	if err := db.QueryDocs(ctx, db.UserCollection, bson.M{}, &users); err != nil {
		log.Printf("admin users error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}

	utils.RespondWithJSON(w, http.StatusOK, public)
}

// Farmers lists farmer accounts with their product counts.
func Farmers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var farmers []models.User
	if err := db.QueryDocs(ctx, db.UserCollection, bson.M{"role": models.RoleFarmer}, &farmers); err != nil {
		log.Printf("admin farmers error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch farmers")
		return
	}

	type farmerRow struct {
		models.PublicUser
		ProductCount int64 `json:"product_count"`
	}

	rows := make([]farmerRow, 0, len(farmers))
	for _, f := range farmers {
		count, err := db.CountDocs(ctx, db.ProductsCollection, bson.M{"farmer_id": f.ID})
		if err != nil {
			log.Printf("admin product count error for %s: %v", f.ID, err)
		}
		rows = append(rows, farmerRow{PublicUser: f.Public(), ProductCount: count})
	}

	utils.RespondWithJSON(w, http.StatusOK, rows)
}

// Products lists every product joined with its owning farmer.
func Products(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var products []models.Product
	if err := db.QueryDocs(ctx, db.ProductsCollection, bson.M{}, &products); err != nil {
		log.Printf("admin products error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	// Cache farmer lookups; many products share an owner
	farmers := map[string]models.User{}

	rows := make([]models.AdminProduct, 0, len(products))
	for _, p := range products {
		row := models.AdminProduct{Product: p}
		farmer, ok := farmers[p.FarmerID]
		if !ok {
			if err := db.FindDoc(ctx, db.UserCollection, p.FarmerID, &farmer); err == nil {
				farmers[p.FarmerID] = farmer
			}
		}
		row.FarmerName = farmer.Name
		row.FarmerEmail = farmer.Email
		rows = append(rows, row)
	}

	utils.RespondWithJSON(w, http.StatusOK, rows)
}

// Stats returns headline counts for the admin dashboard.
func Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	counts := utils.M{}
	for name, spec := range map[string]struct {
		coll   *mongo.Collection
		filter bson.M
	}{
		"totalUsers":    {db.UserCollection, bson.M{}},
		"totalFarmers":  {db.UserCollection, bson.M{"role": models.RoleFarmer}},
		"totalBuyers":   {db.UserCollection, bson.M{"role": models.RoleBuyer}},
		"totalProducts": {db.ProductsCollection, bson.M{}},
		"totalOrders":   {db.OrdersCollection, bson.M{}},
		"pendingOrders": {db.OrdersCollection, bson.M{"order_status": models.OrderPending}},
	} {
		count, err := db.CountDocs(ctx, spec.coll, spec.filter)
		if err != nil {
			log.Printf("admin stats count %s error: %v", name, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to compute stats")
			return
		}
		counts[name] = count
	}

	utils.RespondWithJSON(w, http.StatusOK, counts)
}

// DeleteUser removes an account along with its products, cart and
// subscriptions. Orders are kept for bookkeeping.
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("id")

	var user models.User
	err := db.FindDoc(ctx, db.UserCollection, userID, &user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("admin user lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := db.DeleteDoc(ctx, db.UserCollection, userID); err != nil {
		log.Printf("admin user delete error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	if user.Role == models.RoleFarmer {
		if err := db.DeleteDocs(ctx, db.ProductsCollection, bson.M{"farmer_id": userID}); err != nil {
			log.Printf("admin product cleanup error: %v", err)
		}
		if err := db.DeleteDocs(ctx, db.FarmDetailsCollection, bson.M{"farmer_id": userID}); err != nil {
			log.Printf("admin farm cleanup error: %v", err)
		}
		if err := db.DeleteDocs(ctx, db.SubscriptionsCollection, bson.M{"farmer_id": userID}); err != nil {
			log.Printf("admin subscription cleanup error: %v", err)
		}
	} else {
		if err := db.DeleteDocs(ctx, db.CartCollection, bson.M{"buyer_id": userID}); err != nil {
			log.Printf("admin cart cleanup error: %v", err)
		}
		if err := db.DeleteDocs(ctx, db.SubscriptionsCollection, bson.M{"buyer_id": userID}); err != nil {
			log.Printf("admin subscription cleanup error: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "User deleted"})
}

// DeleteProduct removes any product regardless of owner.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	if err := db.DeleteDoc(ctx, db.ProductsCollection, productID); err != nil {
		log.Printf("admin product delete error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if err := db.DeleteDocs(ctx, db.CartCollection, bson.M{"product_id": productID}); err != nil {
		log.Printf("admin cart cleanup error: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product deleted"})
}

// Banners lists every banner record, active or not, in display order.
func Banners(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var banners []models.Banner
	if err := db.QueryDocs(ctx, db.BannersCollection, bson.M{}, &banners); err != nil {
		log.Printf("admin banners error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch banners")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, banners)
}

// CreateBanner adds a carousel banner.
func CreateBanner(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input models.Banner
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.ImageURL == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Image is required")
		return
	}

	input.ImageURL = utils.NormalizeMediaPath(input.ImageURL)
	if input.Status == "" {
		input.Status = models.BannerActive
	}

	id, err := db.AddDoc(ctx, db.BannersCollection, input)
	if err != nil {
		log.Printf("banner create error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create banner")
		return
	}
	input.ID = id

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Banner created", "banner": input})
}

// UpdateBanner modifies a banner's image, link, order or status.
func UpdateBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Title        *string `json:"title"`
		ImageURL     *string `json:"image_url"`
		LinkURL      *string `json:"link_url"`
		DisplayOrder *int    `json:"display_order"`
		Status       *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	fields := bson.M{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.ImageURL != nil && *input.ImageURL != "" {
		fields["image_url"] = utils.NormalizeMediaPath(*input.ImageURL)
	}
	if input.LinkURL != nil {
		fields["link_url"] = *input.LinkURL
	}
	if input.DisplayOrder != nil {
		fields["display_order"] = *input.DisplayOrder
	}
	if input.Status != nil {
		if *input.Status != models.BannerActive && *input.Status != models.BannerInactive {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid banner status")
			return
		}
		fields["status"] = *input.Status
	}
	if len(fields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	err := db.UpdateDoc(ctx, db.BannersCollection, ps.ByName("id"), fields)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Banner not found")
		return
	}
	if err != nil {
		log.Printf("banner update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update banner")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Banner updated"})
}

// DeleteBanner removes a banner record.
func DeleteBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := db.DeleteDoc(ctx, db.BannersCollection, ps.ByName("id")); err != nil {
		log.Printf("banner delete error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete banner")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Banner deleted"})
}
