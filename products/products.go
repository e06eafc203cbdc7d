package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"farmermall/db"
	"farmermall/models"
	"farmermall/mq"
	"farmermall/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AddProduct creates a product owned by the authenticated farmer.
func AddProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		FarmerID    string  `json:"farmer_id"`
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Quantity    int     `json:"quantity"`
		Description string  `json:"description"`
		ImageURL    string  `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if callerID := utils.GetUserIDFromRequest(r); callerID != "" {
		input.FarmerID = callerID
	}

	if input.FarmerID == "" || input.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Farmer and product name are required")
		return
	}
	if input.Price <= 0 || input.Quantity < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Price must be positive and quantity non-negative")
		return
	}

	product := models.Product{
		FarmerID:    input.FarmerID,
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
		ImageURL:    utils.NormalizeMediaPath(input.ImageURL),
	}
	if product.ImageURL == "" {
		product.ImageURL = localImageFor(product.Name)
	}

	productID, err := db.AddDoc(ctx, db.ProductsCollection, product)
	if err != nil {
		log.Printf("add product error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add product")
		return
	}
	product.ID = productID

	go mq.Emit("product-created", mq.Index{EntityType: "product", EntityId: productID, Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "Product added successfully",
		"product": product,
	})
}

// AllProducts lists every product for the buyer catalog, newest first.
func AllProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var products []models.Product
	if err := db.QueryDocs(ctx, db.ProductsCollection, bson.M{}, &products, newestFirst()); err != nil {
		log.Printf("list products error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	for i := range products {
		if products[i].ImageURL == "" {
			products[i].ImageURL = localImageFor(products[i].Name)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}

// MyProducts lists the products owned by one farmer, newest first.
func MyProducts(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	farmerID := ps.ByName("farmer_id")

	var products []models.Product
	if err := db.QueryDocs(ctx, db.ProductsCollection, bson.M{"farmer_id": farmerID}, &products, newestFirst()); err != nil {
		log.Printf("list farmer products error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	for i := range products {
		if products[i].ImageURL == "" {
			products[i].ImageURL = localImageFor(products[i].Name)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}

// UpdateProduct modifies a product. Only the owning farmer may update it.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	var existing models.Product
	err := db.FindDoc(ctx, db.ProductsCollection, productID, &existing)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("product lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if callerID := utils.GetUserIDFromRequest(r); callerID != "" && callerID != existing.FarmerID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your product")
		return
	}

	var input struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Quantity    *int     `json:"quantity"`
		Description *string  `json:"description"`
		ImageURL    *string  `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	fields := bson.M{}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Price must be positive")
			return
		}
		fields["price"] = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Quantity cannot be negative")
			return
		}
		fields["quantity"] = *input.Quantity
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.ImageURL != nil {
		fields["image_url"] = utils.NormalizeMediaPath(*input.ImageURL)
	}
	if len(fields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	if err := db.UpdateDoc(ctx, db.ProductsCollection, productID, fields); err != nil {
		log.Printf("product update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	go mq.Emit("product-updated", mq.Index{EntityType: "product", EntityId: productID, Method: "PUT"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product updated successfully"})
}

// DeleteProduct removes a product. Only the owning farmer may delete it.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	var existing models.Product
	err := db.FindDoc(ctx, db.ProductsCollection, productID, &existing)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Printf("product lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if callerID := utils.GetUserIDFromRequest(r); callerID != "" && callerID != existing.FarmerID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your product")
		return
	}

	if err := db.DeleteDoc(ctx, db.ProductsCollection, productID); err != nil {
		log.Printf("product delete error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	// Orphaned cart rows are dropped lazily at cart read time, but clean up
	// eagerly anyway so counts stay honest.
	if err := db.DeleteDocs(ctx, db.CartCollection, bson.M{"product_id": productID}); err != nil {
		log.Printf("cart cleanup after product delete failed: %v", err)
	}

	go mq.Emit("product-deleted", mq.Index{EntityType: "product", EntityId: productID, Method: "DELETE"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Product deleted successfully"})
}
