package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/utils"
)

// RestaurantResolver maps the authenticated actor to a restaurant. Owners
// resolve through their owner linkage; staff through an active, accepted
// staff membership (the StaffMember record is stored for capability checks).
// Routes behind this middleware can assume "restaurant" is set.
func RestaurantResolver(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var restaurant models.Restaurant
		err := db.Where("owner_id = ?", userID).First(&restaurant).Error
		if err == nil {
			c.Set("restaurant", &restaurant)
			c.Next()
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusInternalServerError, err)
			c.Abort()
			return
		}

		var staff models.StaffMember
		err = db.Where("user_id = ? AND status = ?", userID, models.StaffStatusActive).
			First(&staff).Error
		if err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
			c.Abort()
			return
		}
		if err := db.First(&restaurant, staff.RestaurantID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
			c.Abort()
			return
		}

		c.Set("restaurant", &restaurant)
		c.Set("staff", &staff)
		c.Next()
	}
}

// CurrentRestaurant returns the restaurant resolved for this request.
func CurrentRestaurant(c *gin.Context) *models.Restaurant {
	value, ok := c.Get("restaurant")
	if !ok {
		return nil
	}
	restaurant, _ := value.(*models.Restaurant)
	return restaurant
}

// CurrentStaff returns the staff record for staff tokens, nil for owners.
func CurrentStaff(c *gin.Context) *models.StaffMember {
	value, ok := c.Get("staff")
	if !ok {
		return nil
	}
	staff, _ := value.(*models.StaffMember)
	return staff
}

// StaffCan enforces a capability flag for staff actors. Owners always pass.
func StaffCan(allowed func(*models.StaffMember) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		staff := CurrentStaff(c)
		if staff == nil || allowed(staff) {
			c.Next()
			return
		}
		utils.RespondError(c, http.StatusForbidden, errors.New("staff permission required"))
		c.Abort()
	}
}
