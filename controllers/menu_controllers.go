package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/services"
	"github.com/seatserve/seatserve-backend/utils"
)

type MenuController struct {
	DB    *gorm.DB
	Plans *services.PlanService
}

func NewMenuController(db *gorm.DB, plans *services.PlanService) *MenuController {
	return &MenuController{DB: db, Plans: plans}
}

// GetAllItems -> menu items of the caller's restaurant, optionally filtered
func (mc *MenuController) GetAllItems(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	query := mc.DB.Where("restaurant_id = ?", restaurant.ID).Preload("Category")
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if available := c.Query("available"); available == "true" {
		query = query.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	if err := query.Order("name").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// CreateItem -> add a menu item, subject to the plan's item quota
func (mc *MenuController) CreateItem(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Price       float64  `json:"price" binding:"required,gt=0"`
		CategoryID  *uint    `json:"category_id"`
		ImageURL    string   `json:"image_url"`
		Tags        []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ok, msg, err := mc.Plans.CanAddMenuItem(restaurant.ID)
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

	if req.CategoryID != nil {
		var category models.Category
		if err := mc.DB.Where("id = ? AND restaurant_id = ?", *req.CategoryID, restaurant.ID).First(&category).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("category not found"))
			return
		}
	}

	item := models.MenuItem{
		RestaurantID: restaurant.ID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsAvailable:  true,
	}
	if len(req.Tags) > 0 {
		raw, err := json.Marshal(req.Tags)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		item.Tags = datatypes.JSON(raw)
	}

	if err := mc.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu item created: %s (restaurant=%d)", item.Name, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateItem -> partial update, availability toggles included
func (mc *MenuController) UpdateItem(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	itemID := c.Param("item_id")

	var item models.MenuItem
	if err := mc.DB.Where("id = ? AND restaurant_id = ?", itemID, restaurant.ID).First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	var req struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		CategoryID  *uint     `json:"category_id"`
		ImageURL    *string   `json:"image_url"`
		Tags        *[]string `json:"tags"`
		IsAvailable *bool     `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be positive"))
			return
		}
		updates["price"] = *req.Price
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := mc.DB.Where("id = ? AND restaurant_id = ?", *req.CategoryID, restaurant.ID).First(&category).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("category not found"))
			return
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Tags != nil {
		raw, err := json.Marshal(*req.Tags)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		updates["tags"] = datatypes.JSON(raw)
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if len(updates) > 0 {
		if err := mc.DB.Model(&item).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

func (mc *MenuController) DeleteItem(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	itemID := c.Param("item_id")

	result := mc.DB.Where("id = ? AND restaurant_id = ?", itemID, restaurant.ID).Delete(&models.MenuItem{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", nil)
}

// Stats -> menu counts plus plan usage
func (mc *MenuController) Stats(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var total, available int64
	if err := mc.DB.Model(&models.MenuItem{}).Where("restaurant_id = ?", restaurant.ID).Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := mc.DB.Model(&models.MenuItem{}).Where("restaurant_id = ? AND is_available = ?", restaurant.ID, true).Count(&available).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	planInfo, err := mc.Plans.GetPlanInfo(restaurant.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu stats", gin.H{
		"total_items":     total,
		"available_items": available,
		"plan":            planInfo,
	})
}
