package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"farmermall/db"
	"farmermall/models"
	"farmermall/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInvalidPair is returned when the two participants are not a
// farmer-buyer pair. Same-role conversations are not allowed.
var ErrInvalidPair = errors.New("chat requires one farmer and one buyer")

// ErrEmptyMessage is returned for blank message bodies.
var ErrEmptyMessage = errors.New("message cannot be empty")

// SaveMessage validates and stores one chat message. It is shared by the
// REST endpoint and the realtime socket path so both enforce the same rules.
func SaveMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.SenderID == "" || msg.ReceiverID == "" {
		return models.Message{}, errors.New("sender and receiver are required")
	}
	if msg.Message == "" {
		return models.Message{}, ErrEmptyMessage
	}

	var sender, receiver models.User
	if err := db.FindDoc(ctx, db.UserCollection, msg.SenderID, &sender); err != nil {
		return models.Message{}, errors.New("sender not found")
	}
	if err := db.FindDoc(ctx, db.UserCollection, msg.ReceiverID, &receiver); err != nil {
		return models.Message{}, errors.New("receiver not found")
	}
	if !models.ValidChatPair(sender.Role, receiver.Role) {
		return models.Message{}, ErrInvalidPair
	}

	id, err := db.AddDoc(ctx, db.MessagesCollection, msg)
	if err != nil {
		return models.Message{}, err
	}
	msg.ID = id
	msg.CreatedAt = time.Now()
	return msg, nil
}

// Save is the REST endpoint wrapping SaveMessage.
func Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var msg models.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	saved, err := SaveMessage(ctx, msg)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

// historyAccess decides whether a history request may proceed given both
// participant lookups. Both users must resolve and form a farmer-buyer pair.
func historyAccess(user models.User, uerr error, other models.User, oerr error) (int, string) {
	if uerr != nil || oerr != nil {
		return http.StatusNotFound, "User not found"
	}
	if !models.ValidChatPair(user.Role, other.Role) {
		return http.StatusForbidden, ErrInvalidPair.Error()
	}
	return http.StatusOK, ""
}

// History returns the full exchange between two users in chronological
// order, denormalized with names and any referenced product.
func History(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("userId")
	otherID := ps.ByName("otherUserId")

	// History is only readable across a farmer-buyer pair; an unresolvable
	// participant denies access rather than skipping the check
	var user, other models.User
	uerr := db.FindDoc(ctx, db.UserCollection, userID, &user)
	oerr := db.FindDoc(ctx, db.UserCollection, otherID, &other)
	if status, msg := historyAccess(user, uerr, other, oerr); status != http.StatusOK {
		utils.RespondWithError(w, status, msg)
		return
	}

	filter := bson.M{"$or": []bson.M{
		{"sender_id": userID, "receiver_id": otherID},
		{"sender_id": otherID, "receiver_id": userID},
	}}

	var messages []models.Message
	opts := options.Find().SetSort(map[string]interface{}{"created_at": 1})
	if err := db.QueryDocs(ctx, db.MessagesCollection, filter, &messages, opts); err != nil {
		log.Printf("chat history error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	names := map[string]string{}
	lookupName := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		var u models.User
		if err := db.FindDoc(ctx, db.UserCollection, id, &u); err == nil {
			names[id] = u.Name
			return u.Name
		}
		names[id] = ""
		return ""
	}

	details := make([]models.MessageDetail, 0, len(messages))
	for _, msg := range messages {
		detail := models.MessageDetail{
			Message:      msg,
			SenderName:   lookupName(msg.SenderID),
			ReceiverName: lookupName(msg.ReceiverID),
		}
		if msg.ProductID != "" {
			var product models.Product
			if err := db.FindDoc(ctx, db.ProductsCollection, msg.ProductID, &product); err == nil {
				detail.ProductName = product.Name
				detail.ProductImage = product.ImageURL
			}
		}
		details = append(details, detail)
	}

	utils.RespondWithJSON(w, http.StatusOK, details)
}

// Conversations lists every counterpart the user has exchanged messages
// with, most recent conversation first.
func Conversations(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := ps.ByName("userId")

	var user models.User
	if err := db.FindDoc(ctx, db.UserCollection, userID, &user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	filter := bson.M{"$or": []bson.M{
		{"sender_id": userID},
		{"receiver_id": userID},
	}}

	var messages []models.Message
	opts := options.Find().SetSort(map[string]interface{}{"created_at": -1})
	if err := db.QueryDocs(ctx, db.MessagesCollection, filter, &messages, opts); err != nil {
		log.Printf("conversations error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}

	// Messages come newest first, so the first one seen per counterpart is
	// the latest in that conversation.
	seen := map[string]bool{}
	conversations := make([]models.Conversation, 0)
	for _, msg := range messages {
		otherID := msg.SenderID
		if otherID == userID {
			otherID = msg.ReceiverID
		}
		if seen[otherID] {
			continue
		}
		seen[otherID] = true

		var other models.User
		if err := db.FindDoc(ctx, db.UserCollection, otherID, &other); err != nil {
			// Counterpart account deleted; drop the conversation
			continue
		}
		if !models.ValidChatPair(user.Role, other.Role) {
			continue
		}
		conversations = append(conversations, models.Conversation{
			OtherUserID:     otherID,
			OtherUserName:   other.Name,
			OtherUserRole:   other.Role,
			LastMessage:     msg.Message,
			LastMessageTime: msg.CreatedAt,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, conversations)
}
