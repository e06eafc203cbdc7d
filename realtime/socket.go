package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"farmermall/chat"
	"farmermall/middleware"
	"farmermall/models"
	"farmermall/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Inbound socket events. A client must join before it may send messages.
type inboundEvent struct {
	Event string `json:"event"`
	Data  struct {
		UserID     string `json:"user_id"`
		ReceiverID string `json:"receiver_id"`
		Message    string `json:"message"`
		ProductID  string `json:"product_id"`
	} `json:"data"`
}

// WebSocketHandler upgrades the connection and binds it to the
// authenticated user. The token may come from the Authorization header or,
// for browser clients that cannot set headers on a socket, a query param.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		userID := utils.GetUserIDFromRequest(r)
		if userID == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				if claims, err := middleware.ValidateJWT("Bearer " + token); err == nil {
					userID = claims.UserID
				}
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("WebSocket upgrade failed:", err)
			return
		}

		client := &Client{
			UserID: userID,
			Conn:   conn,
			Send:   make(chan []byte, 256),
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(hub *Hub) {
	defer func() {
		if c.UserID != "" {
			hub.unregisterClient(c)
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	if c.UserID != "" {
		hub.registerClient(c)
	}

	for {
		var in inboundEvent
		if err := c.Conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("socket read error from %s: %v", c.UserID, err)
			}
			return
		}

		switch in.Event {
		case "join":
			// Late identification for clients that connected anonymously
			if c.UserID == "" && in.Data.UserID != "" {
				c.UserID = in.Data.UserID
				hub.registerClient(c)
			}

		case "send_message":
			c.handleSendMessage(hub, in)

		default:
			log.Printf("unknown socket event from %s: %s", c.UserID, in.Event)
		}
	}
}

func (c *Client) handleSendMessage(hub *Hub, in inboundEvent) {
	if c.UserID == "" {
		c.sendEnvelope("message_error", utils.M{"error": "join before sending messages"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The store-side save revalidates the farmer-buyer pairing so a forged
	// client cannot bypass the role rule.
	saved, err := chat.SaveMessage(ctx, models.Message{
		SenderID:   c.UserID,
		ReceiverID: in.Data.ReceiverID,
		Message:    in.Data.Message,
		ProductID:  in.Data.ProductID,
	})
	if err != nil {
		c.sendEnvelope("message_error", utils.M{"error": err.Error()})
		return
	}

	hub.EmitToUser(saved.ReceiverID, "receive_message", saved)
	c.sendEnvelope("message_sent", saved)
}

func (c *Client) sendEnvelope(event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	c.trySend(payload)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
