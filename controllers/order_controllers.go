package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/live"
	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/services"
	"github.com/seatserve/seatserve-backend/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

// GetAllOrders -> orders of the caller's restaurant, newest first
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	query := oc.DB.Where("restaurant_id = ?", restaurant.ID).
		Preload("Items.MenuItem").Preload("Table")
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, services.ErrUnknownStatus)
			return
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetTodayOrders -> orders created since local midnight
func (oc *OrderController) GetTodayOrders(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var orders []models.Order
	if err := oc.DB.Where("restaurant_id = ? AND created_at >= ?", restaurant.ID, dayStart).
		Preload("Items.MenuItem").Preload("Table").
		Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Today's orders", orders)
}

// GetPendingOrders -> orders still moving through the kitchen
func (oc *OrderController) GetPendingOrders(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var orders []models.Order
	if err := oc.DB.Where("restaurant_id = ? AND status IN ?", restaurant.ID,
		[]string{models.OrderStatusReceived, models.OrderStatusInKitchen, models.OrderStatusReadyToServe}).
		Preload("Items.MenuItem").Preload("Table").
		Order("created_at").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pending orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.Where("id = ? AND restaurant_id = ?", orderID, restaurant.ID).
		Preload("Items.MenuItem").Preload("Table").First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateStatus -> move an order to any known status label
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	orderID := c.Param("order_id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.Where("id = ? AND restaurant_id = ?", orderID, restaurant.ID).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	updated, err := oc.Orders.UpdateStatus(restaurant.ID, order.ID, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrUnknownStatus) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastOrderUpdated(updated)
	utils.InfoLogger.Printf("Order %d -> %s (restaurant=%d)", updated.ID, updated.Status, restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", updated)
}

func (oc *OrderController) Stats(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	stats, err := oc.Orders.Stats(restaurant.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order stats", stats)
}
