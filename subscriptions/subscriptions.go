package subscriptions

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BuyerSubscriptions lists a buyer's subscriptions with product and farmer
// contact details.
func BuyerSubscriptions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var subs []models.Subscription
	err := db.QueryDocs(ctx, db.SubscriptionsCollection, bson.M{"buyer_id": ps.ByName("buyer_id")}, &subs, newestFirst())
	if err != nil {
		log.Printf("buyer subscriptions error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch subscriptions")
		return
	}

	details := make([]models.SubscriptionDetail, 0, len(subs))
	for _, sub := range subs {
		detail := models.SubscriptionDetail{Subscription: sub}

		if sub.ProductID != "" {
			var product models.Product
			if err := db.FindDoc(ctx, db.ProductsCollection, sub.ProductID, &product); err == nil {
				detail.ProductName = product.Name
				detail.Price = product.Price
				detail.ImageURL = product.ImageURL
			}
		}
		var farmer models.User
		if err := db.FindDoc(ctx, db.UserCollection, sub.FarmerID, &farmer); err == nil {
			detail.FarmerName = farmer.Name
			detail.FarmerPhone = farmer.Phone
		}
		details = append(details, detail)
	}

	utils.RespondWithJSON(w, http.StatusOK, details)
}

// FarmerSubscriptions lists the subscriptions placed against one farmer
// with buyer contact details.
func FarmerSubscriptions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var subs []models.Subscription
	err := db.QueryDocs(ctx, db.SubscriptionsCollection, bson.M{"farmer_id": ps.ByName("farmer_id")}, &subs, newestFirst())
	if err != nil {
		log.Printf("farmer subscriptions error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch subscriptions")
		return
	}

	details := make([]models.SubscriptionDetail, 0, len(subs))
	for _, sub := range subs {
		detail := models.SubscriptionDetail{Subscription: sub}

		if sub.ProductID != "" {
			var product models.Product
			if err := db.FindDoc(ctx, db.ProductsCollection, sub.ProductID, &product); err == nil {
				detail.ProductName = product.Name
				detail.Price = product.Price
			}
		}
		var buyer models.User
		if err := db.FindDoc(ctx, db.UserCollection, sub.BuyerID, &buyer); err == nil {
			detail.BuyerName = buyer.Name
			detail.BuyerPhone = buyer.Phone
			detail.BuyerEmail = buyer.Email
		}
		details = append(details, detail)
	}

	utils.RespondWithJSON(w, http.StatusOK, details)
}

// Create starts a subscription. When no farmer is named the subscription is
// assigned to the longest-registered farmer.
func Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input models.Subscription
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.BuyerID == "" || input.ServiceType == "" || input.Frequency == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Buyer, service type and frequency are required")
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	if input.FarmerID == "" {
		farmerID, err := defaultFarmerID(ctx)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "No farmer available for subscription")
			return
		}
		input.FarmerID = farmerID
	} else {
		var farmer models.User
		if err := db.FindDoc(ctx, db.UserCollection, input.FarmerID, &farmer); err != nil || farmer.Role != models.RoleFarmer {
			utils.RespondWithError(w, http.StatusNotFound, "Farmer not found")
			return
		}
	}

	input.Status = models.SubscriptionActive
	if input.StartDate == "" {
		input.StartDate = time.Now().Format("2006-01-02")
	}

	id, err := db.AddDoc(ctx, db.SubscriptionsCollection, input)
	if err != nil {
		log.Printf("subscription create error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create subscription")
		return
	}
	input.ID = id

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message":      "Subscription created",
		"subscription": input,
	})
}

// Update modifies quantity, frequency, dates or status of a subscription.
func Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	subID := ps.ByName("id")

	var input struct {
		Quantity  *int    `json:"quantity"`
		Frequency *string `json:"frequency"`
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
		Status    *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	fields := bson.M{}
	if input.Quantity != nil {
		if *input.Quantity < 1 {
			utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be at least 1")
			return
		}
		fields["quantity"] = *input.Quantity
	}
	if input.Frequency != nil && *input.Frequency != "" {
		fields["frequency"] = *input.Frequency
	}
	if input.StartDate != nil {
		fields["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		fields["end_date"] = *input.EndDate
	}
	if input.Status != nil {
		switch *input.Status {
		case models.SubscriptionActive, models.SubscriptionPaused, models.SubscriptionCancelled:
			fields["status"] = *input.Status
		default:
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid subscription status")
			return
		}
	}
	if len(fields) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	err := db.UpdateDoc(ctx, db.SubscriptionsCollection, subID, fields)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Subscription not found")
		return
	}
	if err != nil {
		log.Printf("subscription update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update subscription")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Subscription updated"})
}

// Delete removes a subscription entirely.
func Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := db.DeleteDoc(ctx, db.SubscriptionsCollection, ps.ByName("id")); err != nil {
		log.Printf("subscription delete error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete subscription")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Subscription deleted"})
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(map[string]interface{}{"created_at": -1})
}

// defaultFarmerID picks the longest-registered farmer as the fallback
// assignee for subscriptions created without one.
func defaultFarmerID(ctx context.Context) (string, error) {
	var farmers []models.User
	opts := options.Find().SetSort(map[string]interface{}{"created_at": 1}).SetLimit(1)
	if err := db.QueryDocs(ctx, db.UserCollection, bson.M{"role": models.RoleFarmer}, &farmers, opts); err != nil {
		return "", err
	}
	if len(farmers) == 0 {
		return "", mongo.ErrNoDocuments
	}
	return farmers[0].ID, nil
}
