package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"farmermall/db"
	"farmermall/models"
	"farmermall/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetCart returns the buyer's cart denormalized with current product and
// farmer details. Rows whose product was deleted are dropped from the
// response and removed from the store.
func GetCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	buyerID := ps.ByName("buyer_id")

	var items []models.CartItem
	if err := db.QueryDocs(ctx, db.CartCollection, bson.M{"buyer_id": buyerID}, &items); err != nil {
		log.Printf("cart fetch error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
		return
	}

	details := make([]models.CartItemDetail, 0, len(items))
	var total float64

	for _, item := range items {
		var product models.Product
		err := db.FindDoc(ctx, db.ProductsCollection, item.ProductID, &product)
		if err == mongo.ErrNoDocuments {
			// Product was removed since the item was added
			if derr := db.DeleteDoc(ctx, db.CartCollection, item.ID); derr != nil {
				log.Printf("stale cart row cleanup failed: %v", derr)
			}
			continue
		}
		if err != nil {
			log.Printf("cart product lookup error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
			return
		}

		detail := models.CartItemDetail{
			CartItem:          item,
			Name:              product.Name,
			Price:             product.Price,
			ImageURL:          product.ImageURL,
			AvailableQuantity: product.Quantity,
		}

		var farmer models.User
		if err := db.FindDoc(ctx, db.UserCollection, product.FarmerID, &farmer); err == nil {
			detail.FarmerName = farmer.Name
			detail.FarmerPhone = farmer.Phone
		}

		total += product.Price * float64(item.Quantity)
		details = append(details, detail)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"items": details,
		"total": total,
		"count": len(details),
	})
}

// AddToCart adds a product to the buyer's cart. Re-adding the same product
// increments the existing row atomically instead of creating a duplicate.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		BuyerID   string `json:"buyer_id"`
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.BuyerID == "" || input.ProductID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Buyer and product are required")
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	var product models.Product
	err := db.FindDoc(ctx, db.ProductsCollection, input.ProductID, &product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("cart add product lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if product.Quantity < input.Quantity {
		utils.RespondWithError(w, http.StatusBadRequest, "Requested quantity exceeds available stock")
		return
	}

	// One upsert handles both the merge and the first insert, so two
	// concurrent adds of the same product cannot race into duplicates.
	now := time.Now()
	filter := bson.M{"buyer_id": input.BuyerID, "product_id": input.ProductID}
	update := bson.M{
		"$inc": bson.M{"quantity": input.Quantity},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"buyer_id":   input.BuyerID,
			"product_id": input.ProductID,
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := db.CartCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Printf("cart add error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Added to cart"})
}

// UpdateCart sets the quantity of an existing cart row.
func UpdateCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		CartID   string `json:"cart_id"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.CartID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Cart item is required")
		return
	}
	if input.Quantity < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	var item models.CartItem
	if err := db.FindDoc(ctx, db.CartCollection, input.CartID, &item); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Cart item not found")
		return
	}

	var product models.Product
	if err := db.FindDoc(ctx, db.ProductsCollection, item.ProductID, &product); err == nil {
		if product.Quantity < input.Quantity {
			utils.RespondWithError(w, http.StatusBadRequest, "Requested quantity exceeds available stock")
			return
		}
	}

	if err := db.UpdateDoc(ctx, db.CartCollection, input.CartID, bson.M{"quantity": input.Quantity}); err != nil {
		log.Printf("cart update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Cart updated"})
}

// RemoveFromCart deletes one cart row.
func RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := db.DeleteDoc(ctx, db.CartCollection, ps.ByName("cart_id")); err != nil {
		log.Printf("cart remove error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to remove from cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Removed from cart"})
}

// ClearCart empties the buyer's whole cart.
func ClearCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := db.DeleteDocs(ctx, db.CartCollection, bson.M{"buyer_id": ps.ByName("buyer_id")}); err != nil {
		log.Printf("cart clear error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Cart cleared"})
}
