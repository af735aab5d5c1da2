package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/services"
	"github.com/seatserve/seatserve-backend/utils"
)

type TableController struct {
	DB          *gorm.DB
	Plans       *services.PlanService
	FrontendURL string
}

func NewTableController(db *gorm.DB, plans *services.PlanService, frontendURL string) *TableController {
	return &TableController{
		DB:          db,
		Plans:       plans,
		FrontendURL: frontendURL,
	}
}

// GetAllTables -> tables of the caller's restaurant
func (tc *TableController) GetAllTables(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var tables []models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurant.ID).Order("name").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable -> add a table, subject to the plan's table quota
func (tc *TableController) CreateTable(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var req struct {
		Name     string `json:"name" binding:"required"`
		Capacity int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ok, msg, err := tc.Plans.CanAddTable(restaurant.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSubscription) {
			utils.RespondError(c, http.StatusForbidden, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, errors.New(msg))
		return
	}

	table := models.Table{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Token:        utils.NewToken(),
		Capacity:     4,
		IsActive:     true,
	}
	if req.Capacity > 0 {
		table.Capacity = req.Capacity
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table name already in use"))
		return
	}

	utils.InfoLogger.Printf("Table created: %s (restaurant=%d)", table.Name, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// UpdateTable -> rename, resize or (de)activate a table
func (tc *TableController) UpdateTable(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.Where("id = ? AND restaurant_id = ?", tableID, restaurant.ID).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Capacity *int    `json:"capacity"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := tc.DB.Model(&table).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable
func (tc *TableController) DeleteTable(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	tableID := c.Param("table_id")

	result := tc.DB.Where("id = ? AND restaurant_id = ?", tableID, restaurant.ID).Delete(&models.Table{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}

// QRCode -> public ordering URL for the table. Rendering the QR image is
// left to the frontend.
func (tc *TableController) QRCode(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	tableID := c.Param("table_id")

	var table models.Table
	if err := tc.DB.Where("id = ? AND restaurant_id = ?", tableID, restaurant.ID).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table QR", gin.H{
		"table_id":   table.ID,
		"table_name": table.Name,
		"public_url": fmt.Sprintf("%s/order/%s/%s", tc.FrontendURL, restaurant.PublicID, table.Token),
	})
}

// Stats -> table counts plus plan usage
func (tc *TableController) Stats(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var total, active int64
	if err := tc.DB.Model(&models.Table{}).Where("restaurant_id = ?", restaurant.ID).Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tc.DB.Model(&models.Table{}).Where("restaurant_id = ? AND is_active = ?", restaurant.ID, true).Count(&active).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	planInfo, err := tc.Plans.GetPlanInfo(restaurant.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table stats", gin.H{
		"total_tables":    total,
		"active_tables":   active,
		"inactive_tables": total - active,
		"plan":            planInfo,
	})
}
