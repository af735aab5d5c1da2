package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/live"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/services"
	"github.com/seatserve/seatserve-backend/utils"
)

// PublicController serves the unauthenticated customer flow: a diner scans
// the QR on a table and lands on URLs carrying the restaurant's public id
// and the table's opaque token.
type PublicController struct {
	DB     *gorm.DB
	Orders *services.OrderService
	Plans  *services.PlanService
}

func NewPublicController(db *gorm.DB, orders *services.OrderService, plans *services.PlanService) *PublicController {
	return &PublicController{DB: db, Orders: orders, Plans: plans}
}

// resolveTable maps /:public_id/tables/:token to a live restaurant + table.
func (pc *PublicController) resolveTable(c *gin.Context) (*models.Restaurant, *models.Table, bool) {
	var restaurant models.Restaurant
	if err := pc.DB.Where("public_id = ? AND is_active = ?", c.Param("public_id"), true).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		return nil, nil, false
	}

	var table models.Table
	if err := pc.DB.Where("token = ? AND restaurant_id = ? AND is_active = ?", c.Param("token"), restaurant.ID, true).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return nil, nil, false
	}
	return &restaurant, &table, true
}

type publicMenuCategory struct {
	ID    uint              `json:"id"`
	Name  string            `json:"name"`
	Items []models.MenuItem `json:"items"`
}

// Menu -> available items grouped by category, uncategorized items last.
// Served only while the restaurant's subscription is active, same as ordering.
func (pc *PublicController) Menu(c *gin.Context) {
	restaurant, table, ok := pc.resolveTable(c)
	if !ok {
		return
	}

	if !pc.Plans.IsSubscriptionActive(restaurant.ID) {
		utils.RespondError(c, http.StatusForbidden, errors.New("restaurant is not accepting orders"))
		return
	}

	var categories []models.Category
	if err := pc.DB.Where("restaurant_id = ? AND is_active = ?", restaurant.ID, true).
		Order("sort_order, name").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var items []models.MenuItem
	if err := pc.DB.Where("restaurant_id = ? AND is_available = ?", restaurant.ID, true).
		Order("name").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	byCategory := make(map[uint][]models.MenuItem)
	var uncategorized []models.MenuItem
	for _, item := range items {
		if item.CategoryID == nil {
			uncategorized = append(uncategorized, item)
			continue
		}
		byCategory[*item.CategoryID] = append(byCategory[*item.CategoryID], item)
	}

	menu := make([]publicMenuCategory, 0, len(categories)+1)
	for _, category := range categories {
		grouped := byCategory[category.ID]
		if len(grouped) == 0 {
			continue
		}
		menu = append(menu, publicMenuCategory{ID: category.ID, Name: category.Name, Items: grouped})
	}
	if len(uncategorized) > 0 {
		menu = append(menu, publicMenuCategory{Name: "Other", Items: uncategorized})
	}

	utils.RespondJSON(c, http.StatusOK, "Menu", gin.H{
		"restaurant": gin.H{
			"public_id": restaurant.PublicID,
			"name":      restaurant.Name,
			"logo_url":  restaurant.LogoURL,
		},
		"table": gin.H{
			"name":     table.Name,
			"capacity": table.Capacity,
		},
		"categories": menu,
	})
}

// CreateOrder -> place a customer order from the table's QR session
func (pc *PublicController) CreateOrder(c *gin.Context) {
	restaurant, table, ok := pc.resolveTable(c)
	if !ok {
		return
	}

	if !pc.Plans.IsSubscriptionActive(restaurant.ID) {
		utils.RespondError(c, http.StatusForbidden, errors.New("restaurant is not accepting orders"))
		return
	}

	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := pc.Orders.CreateOrder(restaurant, table, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyOrder), errors.Is(err, services.ErrInvalidQuantity):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondError(c, http.StatusBadRequest, errors.New("one or more items are not available"))
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	live.BroadcastOrderCreated(order)
	utils.InfoLogger.Printf("Order %d placed at table %s (restaurant=%d)", order.ID, table.Name, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, "Order placed", gin.H{
		"order":        order,
		"public_token": order.PublicToken,
	})
}

// OrderStatus -> track an order by its public token, no auth required
func (pc *PublicController) OrderStatus(c *gin.Context) {
	var order models.Order
	if err := pc.DB.Where("public_token = ?", c.Param("order_token")).
		Preload("Items.MenuItem").First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status", gin.H{
		"public_token":           order.PublicToken,
		"status":                 order.Status,
		"payment_status":         order.PaymentStatus,
		"total_amount":           order.TotalAmount,
		"estimated_time_minutes": order.EstimatedTimeMinutes,
		"items":                  order.Items,
		"created_at":             order.CreatedAt,
	})
}
