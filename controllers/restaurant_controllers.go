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

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// GetMyRestaurant -> restaurant owned by (or employing) the caller
func (rc *RestaurantController) GetMyRestaurant(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	if restaurant == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant", restaurant)
}

// CreateRestaurant -> one restaurant per account
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	userID := c.GetUint("user_id")

	var existing models.Restaurant
	if err := rc.DB.Where("owner_id = ?", userID).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("user already has a restaurant"))
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Address     string `json:"address"`
		City        string `json:"city"`
		Country     string `json:"country"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	email := req.Email
	if email == "" {
		var user models.User
		if err := rc.DB.First(&user, userID).Error; err == nil {
			email = user.Email
		}
	}

	restaurant := models.Restaurant{
		OwnerID:     userID,
		PublicID:    utils.NewToken(),
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Phone:       req.Phone,
		Email:       email,
		IsActive:    true,
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant created: %s (owner=%d)", restaurant.Name, userID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// UpdateMyRestaurant -> partial update of display metadata
func (rc *RestaurantController) UpdateMyRestaurant(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)
	if restaurant == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Address     *string `json:"address"`
		City        *string `json:"city"`
		Country     *string `json:"country"`
		Phone       *string `json:"phone"`
		Email       *string `json:"email"`
		LogoURL     *string `json:"logo_url"`
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
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}

	if len(updates) > 0 {
		if err := rc.DB.Model(restaurant).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}
