package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/utils"
)

var (
	ErrEmptyOrder      = errors.New("at least one item is required")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrUnknownStatus   = errors.New("unknown order status")
)

// OrderService creates orders and drives their status fields.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

type OrderItemInput struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required"`
}

type CreateOrderInput struct {
	Items        []OrderItemInput `json:"items" binding:"required"`
	CustomerNote string           `json:"customer_note"`
}

// CreateOrder builds an order for a restaurant table inside one transaction:
// every line resolves its menu item from the same restaurant, snapshots the
// current price, and the total is the sum of snapshot*quantity. Either the
// order and all its items are persisted or nothing is.
func (s *OrderService) CreateOrder(restaurant *models.Restaurant, table *models.Table, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	order := models.Order{
		RestaurantID:  restaurant.ID,
		PublicToken:   utils.NewToken(),
		Status:        models.OrderStatusReceived,
		PaymentStatus: models.OrderPaymentPending,
		CustomerNote:  input.CustomerNote,
	}
	if table != nil {
		order.TableID = &table.ID
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, item := range input.Items {
			var menuItem models.MenuItem
			if err := tx.Where("id = ? AND restaurant_id = ?", item.MenuItemID, restaurant.ID).
				First(&menuItem).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("menu item %d not found: %w", item.MenuItemID, gorm.ErrRecordNotFound)
				}
				return err
			}
			if !menuItem.IsAvailable {
				return fmt.Errorf("menu item %q is not available: %w", menuItem.Name, gorm.ErrRecordNotFound)
			}

			orderItem := models.OrderItem{
				OrderID:     order.ID,
				MenuItemID:  menuItem.ID,
				Quantity:    item.Quantity,
				PriceAtTime: menuItem.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			total += menuItem.Price * float64(item.Quantity)
		}

		order.TotalAmount = total
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("total_amount", total).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Preload("Items").Preload("Items.MenuItem").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus sets an order's status. Transitions are deliberately
// permissive: any known label may be set at any time, only unknown labels
// are rejected.
func (s *OrderService) UpdateStatus(restaurantID, orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, ErrUnknownStatus
	}

	var order models.Order
	if err := s.DB.Where("id = ? AND restaurant_id = ?", orderID, restaurantID).
		Preload("Items").First(&order).Error; err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.DB.Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderStats is the owner dashboard summary for a single day.
type OrderStats struct {
	TotalOrdersToday int64   `json:"total_orders_today"`
	RevenueToday     float64 `json:"total_revenue_today"`
	PaidOrders       int64   `json:"paid_orders"`
	PendingOrders    int64   `json:"pending_orders"`
	ServedOrders     int64   `json:"served_orders"`
}

// Stats aggregates today's orders for the restaurant dashboard.
func (s *OrderService) Stats(restaurantID uint) (*OrderStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today := s.DB.Model(&models.Order{}).
		Where("restaurant_id = ? AND created_at >= ?", restaurantID, dayStart)

	stats := &OrderStats{}
	if err := today.Session(&gorm.Session{}).Count(&stats.TotalOrdersToday).Error; err != nil {
		return nil, err
	}

	var revenue *float64
	if err := today.Session(&gorm.Session{}).Select("SUM(total_amount)").Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.RevenueToday = *revenue
	}

	if err := today.Session(&gorm.Session{}).
		Where("payment_status = ?", models.OrderPaymentPaid).
		Count(&stats.PaidOrders).Error; err != nil {
		return nil, err
	}
	if err := today.Session(&gorm.Session{}).
		Where("status IN ?", []string{models.OrderStatusReceived, models.OrderStatusInKitchen}).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := today.Session(&gorm.Session{}).
		Where("status = ?", models.OrderStatusServed).
		Count(&stats.ServedOrders).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
