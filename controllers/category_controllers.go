package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/utils"
)

type CategoryController struct {
	DB *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db}
}

func (cc *CategoryController) GetAllCategories(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var categories []models.Category
	if err := cc.DB.Where("restaurant_id = ?", restaurant.ID).
		Order("sort_order, name").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var req struct {
		Name      string `json:"name" binding:"required"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.Category{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		SortOrder:    req.SortOrder,
		IsActive:     true,
	}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category name already in use"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	categoryID := c.Param("category_id")

	var category models.Category
	if err := cc.DB.Where("id = ? AND restaurant_id = ?", categoryID, restaurant.ID).First(&category).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	var req struct {
		Name      *string `json:"name"`
		SortOrder *int    `json:"sort_order"`
		IsActive  *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := cc.DB.Model(&category).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	categoryID := c.Param("category_id")

	result := cc.DB.Where("id = ? AND restaurant_id = ?", categoryID, restaurant.ID).Delete(&models.Category{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("category not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}
