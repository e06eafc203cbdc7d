package farm

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

// Get returns the farm profile for a farmer, or JSON null when none has
// been saved yet. Absence is not an error.
func Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var details models.FarmDetails
	err := db.FarmDetailsCollection.FindOne(ctx, bson.M{"farmer_id": ps.ByName("farmer_id")}).Decode(&details)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		log.Printf("farm details fetch error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch farm details")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, details)
}

// Save creates or replaces a farmer's farm profile. Each farmer has at
// most one record.
func Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input models.FarmDetails
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if callerID := utils.GetUserIDFromRequest(r); callerID != "" {
		input.FarmerID = callerID
	}
	if input.FarmerID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Farmer is required")
		return
	}

	var existing models.FarmDetails
	err := db.FarmDetailsCollection.FindOne(ctx, bson.M{"farmer_id": input.FarmerID}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		id, aerr := db.AddDoc(ctx, db.FarmDetailsCollection, input)
		if aerr != nil {
			log.Printf("farm details insert error: %v", aerr)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save farm details")
			return
		}
		input.ID = id
		utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Farm details saved", "farm": input})
		return
	}
	if err != nil {
		log.Printf("farm details lookup error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	fields := bson.M{
		"farm_name":     input.FarmName,
		"farm_address":  input.FarmAddress,
		"farm_area":     input.FarmArea,
		"farm_type":     input.FarmType,
		"crops_grown":   input.CropsGrown,
		"livestock":     input.Livestock,
		"certification": input.Certification,
		"description":   input.Description,
	}
	if err := db.UpdateDoc(ctx, db.FarmDetailsCollection, existing.ID, fields); err != nil {
		log.Printf("farm details update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save farm details")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Farm details updated"})
}
