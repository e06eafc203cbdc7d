package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"farmermall/db"
	"farmermall/models"
	"farmermall/mq"
	"farmermall/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Notifier delivers realtime events to a connected user. Offline users are
// silently skipped.
type Notifier interface {
	EmitToUser(userID, event string, data interface{})
}

// PlaceOrder creates a single-product order. The buyer must have a delivery
// address on file unless one is supplied with the request.
func PlaceOrder(notify Notifier) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var input struct {
			BuyerID         string `json:"buyer_id"`
			ProductID       string `json:"product_id"`
			Quantity        int    `json:"quantity"`
			DeliveryAddress string `json:"delivery_address"`
			PaymentMethod   string `json:"payment_method"`
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

		var buyer models.User
		if err := db.FindDoc(ctx, db.UserCollection, input.BuyerID, &buyer); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Buyer not found")
			return
		}

		address := input.DeliveryAddress
		if address == "" {
			address = buyer.Address
		}
		if address == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Please update your address before placing an order")
			return
		}

		var product models.Product
		err := db.FindDoc(ctx, db.ProductsCollection, input.ProductID, &product)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		if err != nil {
			log.Printf("order product lookup error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		if product.Quantity < input.Quantity {
			utils.RespondWithError(w, http.StatusBadRequest, "Not enough stock available")
			return
		}

		order := buildOrder(input.BuyerID, address, input.PaymentMethod, product, input.Quantity)

		orderID, err := db.AddDoc(ctx, db.OrdersCollection, order)
		if err != nil {
			log.Printf("order insert error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
			return
		}
		order.ID = orderID

		decrementStock(ctx, product.ID, input.Quantity)
		notifyFarmer(notify, buyer.Name, order, product.Name)

		go mq.Emit("order-placed", mq.Index{EntityType: "order", EntityId: orderID, Method: "POST"})

		utils.RespondWithJSON(w, http.StatusCreated, utils.M{
			"message": "Order placed successfully",
			"order":   order,
		})
	}
}

// PlaceOrderFromCart converts the buyer's entire cart into orders, one per
// cart row. Every row is validated against live stock before any order is
// written; a row failing validation rejects the whole checkout.
func PlaceOrderFromCart(notify Notifier) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var input struct {
			BuyerID         string `json:"buyer_id"`
			DeliveryAddress string `json:"delivery_address"`
			PaymentMethod   string `json:"payment_method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if input.BuyerID == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Buyer is required")
			return
		}

		var buyer models.User
		if err := db.FindDoc(ctx, db.UserCollection, input.BuyerID, &buyer); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Buyer not found")
			return
		}

		address := input.DeliveryAddress
		if address == "" {
			address = buyer.Address
		}
		if address == "" {
			utils.RespondWithError(w, http.StatusBadRequest, "Please update your address before placing an order")
			return
		}

		var items []models.CartItem
		if err := db.QueryDocs(ctx, db.CartCollection, bson.M{"buyer_id": input.BuyerID}, &items); err != nil {
			log.Printf("checkout cart fetch error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch cart")
			return
		}
		if len(items) == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
			return
		}

		// Batch-fetch every product up front so validation completes before
		// the first order document is written.
		productIDs := make([]string, 0, len(items))
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}
		var productList []models.Product
		if err := db.QueryDocs(ctx, db.ProductsCollection, bson.M{"_id": bson.M{"$in": productIDs}}, &productList); err != nil {
			log.Printf("checkout product fetch error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}
		productsByID := make(map[string]models.Product, len(productList))
		for _, p := range productList {
			productsByID[p.ID] = p
		}

		orders := make([]any, 0, len(items))
		for _, item := range items {
			product, ok := productsByID[item.ProductID]
			if !ok {
				utils.RespondWithError(w, http.StatusBadRequest, "A product in your cart is no longer available")
				return
			}
			if product.Quantity < item.Quantity {
				utils.RespondWithError(w, http.StatusBadRequest,
					fmt.Sprintf("Not enough stock for %s", product.Name))
				return
			}
			orders = append(orders, buildOrder(input.BuyerID, address, input.PaymentMethod, product, item.Quantity))
		}

		orderIDs, err := db.AddDocs(ctx, db.OrdersCollection, orders)
		if err != nil {
			log.Printf("checkout insert error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place orders")
			return
		}

		for i, item := range items {
			product := productsByID[item.ProductID]
			decrementStock(ctx, product.ID, item.Quantity)

			order := orders[i].(models.Order)
			order.ID = orderIDs[i]
			notifyFarmer(notify, buyer.Name, order, product.Name)
			go mq.Emit("order-placed", mq.Index{EntityType: "order", EntityId: order.ID, Method: "POST"})
		}

		if err := db.DeleteDocs(ctx, db.CartCollection, bson.M{"buyer_id": input.BuyerID}); err != nil {
			log.Printf("cart clear after checkout failed: %v", err)
		}

		utils.RespondWithJSON(w, http.StatusCreated, utils.M{
			"message":  "Orders placed successfully",
			"orderIds": orderIDs,
		})
	}
}

// BuyerOrders lists a buyer's orders with product and farmer details.
func BuyerOrders(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var orders []models.Order
	err := db.QueryDocs(ctx, db.OrdersCollection, bson.M{"buyer_id": ps.ByName("buyer_id")}, &orders, newestFirst())
	if err != nil {
		log.Printf("buyer orders fetch error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	details := make([]models.OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail := models.OrderDetail{Order: order}

		var product models.Product
		if err := db.FindDoc(ctx, db.ProductsCollection, order.ProductID, &product); err == nil {
			detail.ProductName = product.Name
			detail.ProductImage = product.ImageURL
			detail.ProductPrice = product.Price
		}
		var farmer models.User
		if err := db.FindDoc(ctx, db.UserCollection, order.FarmerID, &farmer); err == nil {
			detail.FarmerName = farmer.Name
		}
		details = append(details, detail)
	}

	utils.RespondWithJSON(w, http.StatusOK, details)
}

// FarmerOrders lists the orders placed against a farmer's products with
// buyer contact details for fulfilment.
func FarmerOrders(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var orders []models.Order
	err := db.QueryDocs(ctx, db.OrdersCollection, bson.M{"farmer_id": ps.ByName("farmer_id")}, &orders, newestFirst())
	if err != nil {
		log.Printf("farmer orders fetch error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	details := make([]models.OrderDetail, 0, len(orders))
	for _, order := range orders {
		detail := models.OrderDetail{Order: order}

		var product models.Product
		if err := db.FindDoc(ctx, db.ProductsCollection, order.ProductID, &product); err == nil {
			detail.ProductName = product.Name
			detail.ProductImage = product.ImageURL
			detail.ProductPrice = product.Price
		}
		var buyer models.User
		if err := db.FindDoc(ctx, db.UserCollection, order.BuyerID, &buyer); err == nil {
			detail.BuyerName = buyer.Name
			detail.BuyerPhone = buyer.Phone
			detail.BuyerAddress = buyer.Address
		}
		details = append(details, detail)
	}

	utils.RespondWithJSON(w, http.StatusOK, details)
}

// UpdateStatus moves an order along the fulfilment path. Illegal jumps
// (pending straight to delivered, reopening a terminal order) are rejected.
func UpdateStatus(notify Notifier) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		orderID := ps.ByName("order_id")

		var input struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		if !ValidStatus(input.Status) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid order status")
			return
		}

		var order models.Order
		err := db.FindDoc(ctx, db.OrdersCollection, orderID, &order)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		if err != nil {
			log.Printf("order lookup error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if callerID := utils.GetUserIDFromRequest(r); callerID != "" && callerID != order.FarmerID {
			utils.RespondWithError(w, http.StatusForbidden, "Not your order")
			return
		}

		if !CanTransition(order.OrderStatus, input.Status) {
			utils.RespondWithError(w, http.StatusBadRequest,
				fmt.Sprintf("Cannot change order from %s to %s", order.OrderStatus, input.Status))
			return
		}

		fields := bson.M{"order_status": input.Status}
		// Cash on delivery settles when the goods arrive.
		if input.Status == models.OrderDelivered && order.PaymentMethod == models.PaymentCashOnDelivery {
			fields["payment_status"] = models.PaymentPaid
		}
		if input.Status == models.OrderCancelled {
			decrementStock(ctx, order.ProductID, -order.Quantity)
		}

		if err := db.UpdateDoc(ctx, db.OrdersCollection, orderID, fields); err != nil {
			log.Printf("order status update error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
			return
		}

		if notify != nil {
			notify.EmitToUser(order.BuyerID, "order_status_update_"+order.BuyerID, utils.M{
				"orderId": orderID,
				"status":  input.Status,
			})
		}

		go mq.Emit("order-status-changed", mq.Index{EntityType: "order", EntityId: orderID, Method: "PUT"})

		utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Order status updated", "status": input.Status})
	}
}

// CancelOrder lets the buyer cancel an order that has not yet shipped.
// Reserved stock is returned to the product.
func CancelOrder(notify Notifier) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		orderID := ps.ByName("order_id")

		var order models.Order
		err := db.FindDoc(ctx, db.OrdersCollection, orderID, &order)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		if err != nil {
			log.Printf("order lookup error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}

		if callerID := utils.GetUserIDFromRequest(r); callerID != "" && callerID != order.BuyerID {
			utils.RespondWithError(w, http.StatusForbidden, "Not your order")
			return
		}

		if !Cancellable(order.OrderStatus) {
			utils.RespondWithError(w, http.StatusBadRequest, "Order can no longer be cancelled")
			return
		}

		if err := db.UpdateDoc(ctx, db.OrdersCollection, orderID, bson.M{"order_status": models.OrderCancelled}); err != nil {
			log.Printf("order cancel error: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to cancel order")
			return
		}

		decrementStock(ctx, order.ProductID, -order.Quantity)

		if notify != nil {
			notify.EmitToUser(order.FarmerID, "order_notification_"+order.FarmerID, utils.M{
				"orderId": orderID,
				"status":  models.OrderCancelled,
			})
		}

		go mq.Emit("order-cancelled", mq.Index{EntityType: "order", EntityId: orderID, Method: "PUT"})

		utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Order cancelled"})
	}
}

// UpdatePayment records the payment outcome for an order.
func UpdatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("order_id")

	var input struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !ValidPaymentStatus(input.PaymentStatus) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payment status")
		return
	}

	err := db.UpdateDoc(ctx, db.OrdersCollection, orderID, bson.M{"payment_status": input.PaymentStatus})
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Printf("payment update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update payment")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Payment status updated"})
}

func buildOrder(buyerID, address, paymentMethod string, product models.Product, quantity int) models.Order {
	if paymentMethod == "" {
		paymentMethod = models.PaymentCashOnDelivery
	}
	return models.Order{
		BuyerID:         buyerID,
		ProductID:       product.ID,
		FarmerID:        product.FarmerID,
		Quantity:        quantity,
		TotalAmount:     product.Price * float64(quantity),
		DeliveryAddress: address,
		OrderStatus:     models.OrderPending,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   models.PaymentPending,
	}
}

// decrementStock subtracts by from the product's quantity. Pass a negative
// value to restore stock on cancellation.
func decrementStock(ctx context.Context, productID string, by int) {
	_, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$inc": bson.M{"quantity": -by}},
	)
	if err != nil {
		log.Printf("stock adjust failed for %s: %v", productID, err)
	}
}

func notifyFarmer(notify Notifier, buyerName string, order models.Order, productName string) {
	if notify == nil {
		return
	}
	notify.EmitToUser(order.FarmerID, "order_notification_"+order.FarmerID, utils.M{
		"orderId":     order.ID,
		"buyerName":   buyerName,
		"productName": productName,
		"quantity":    order.Quantity,
		"totalAmount": order.TotalAmount,
	})
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(map[string]interface{}{"created_at": -1})
}
