package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"farmermall/db"
	"farmermall/models"
	"farmermall/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/mongo"
)

func invoiceSecret() []byte {
	if s := os.Getenv("INVOICE_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("farmermall-invoice-secret")
}

// invoicePayload returns the signed string embedded in the invoice QR code
// so a scanned invoice can be verified against the order it claims.
func invoicePayload(orderID, buyerID string, issuedAt time.Time) string {
	data := fmt.Sprintf("%s|%s|%d", orderID, buyerID, issuedAt.Unix())
	h := hmac.New(sha256.New, invoiceSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// Invoice renders a PDF invoice for an order, with a QR code that encodes a
// signed reference to the order.
func Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if callerID := utils.GetUserIDFromRequest(r); callerID != "" &&
		callerID != order.BuyerID && callerID != order.FarmerID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your order")
		return
	}

	var product models.Product
	_ = db.FindDoc(ctx, db.ProductsCollection, order.ProductID, &product)
	var buyer models.User
	_ = db.FindDoc(ctx, db.UserCollection, order.BuyerID, &buyer)
	var farmer models.User
	_ = db.FindDoc(ctx, db.UserCollection, order.FarmerID, &farmer)

	qrPNG, err := qrcode.Encode(invoicePayload(orderID, order.BuyerID, time.Now()), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", orderID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Buyer: %s", buyer.Name))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Farmer: %s", farmer.Name))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Delivery Address: %s", order.DeliveryAddress))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(80, 8, "Product")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(35, 8, "Unit Price")
	pdf.Cell(35, 8, "Amount")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	unitPrice := product.Price
	if unitPrice == 0 && order.Quantity > 0 {
		unitPrice = order.TotalAmount / float64(order.Quantity)
	}
	name := product.Name
	if name == "" {
		name = order.ProductID
	}
	pdf.Cell(80, 8, name)
	pdf.Cell(25, 8, fmt.Sprintf("%d", order.Quantity))
	pdf.Cell(35, 8, fmt.Sprintf("%.2f", unitPrice))
	pdf.Cell(35, 8, fmt.Sprintf("%.2f", order.TotalAmount))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", order.TotalAmount))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Payment: %s (%s)", order.PaymentMethod, order.PaymentStatus))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", order.OrderStatus))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+orderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
