package live

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/utils"
)

// Event types pushed to dashboard clients.
const (
	EventOrderCreated  = "order_created"
	EventOrderUpdated  = "order_updated"
	EventPaymentUpdate = "payment_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds the dashboard connections per restaurant. Events for one
// restaurant are never delivered to another tenant's clients.
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> restaurant id
	mu      sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]uint),
}

// RegisterClient adds a dashboard connection scoped to a restaurant.
func RegisterClient(conn *websocket.Conn, restaurantID uint) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.clients[conn] = restaurantID
}

// UnregisterClient drops and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderCreated pushes a new order to the restaurant's dashboards.
func BroadcastOrderCreated(order *models.Order) {
	broadcast(order.RestaurantID, Message{Event: EventOrderCreated, Data: order})
}

// BroadcastOrderUpdated pushes an order status change.
func BroadcastOrderUpdated(order *models.Order) {
	broadcast(order.RestaurantID, Message{Event: EventOrderUpdated, Data: order})
}

// BroadcastPaymentUpdate pushes a payment state change.
func BroadcastPaymentUpdate(payment *models.Payment) {
	broadcast(payment.RestaurantID, Message{Event: EventPaymentUpdate, Data: payment})
}

func broadcast(restaurantID uint, msg Message) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for conn, id := range hub.clients {
		if id != restaurantID {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			utils.ErrorLogger.Printf("Error broadcasting to dashboard client: %v", err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
