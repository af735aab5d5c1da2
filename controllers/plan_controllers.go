package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/services"
	"github.com/seatserve/seatserve-backend/utils"
)

type PlanController struct {
	DB    *gorm.DB
	Plans *services.PlanService
}

func NewPlanController(db *gorm.DB) *PlanController {
	return &PlanController{DB: db, Plans: services.NewPlanService(db)}
}

// ListPlans -> active plans, cheapest first
func (pc *PlanController) ListPlans(c *gin.Context) {
	var plans []models.Plan
	if err := pc.DB.Where("is_active = ?", true).Order("price").Find(&plans).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of plans", plans)
}

// SelectPlan -> activate a plan for the caller's restaurant. Activation is
// immediate with a mock payment reference; the end date is one billing
// period ahead.
func (pc *PlanController) SelectPlan(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var req struct {
		PlanID uint `json:"plan_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var plan models.Plan
	if err := pc.DB.Where("id = ? AND is_active = ?", req.PlanID, true).First(&plan).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("plan not found"))
		return
	}

	days := 30
	if plan.BillingPeriod == models.BillingPeriodYear {
		days = 365
	}

	now := time.Now()
	subscription := models.Subscription{
		RestaurantID:     restaurant.ID,
		PlanID:           plan.ID,
		Status:           models.SubscriptionStatusActive,
		StartDate:        now,
		EndDate:          now.AddDate(0, 0, days),
		PaymentReference: "mock_payment_" + utils.NewToken(),
	}
	if err := pc.DB.Create(&subscription).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	subscription.Plan = plan

	utils.InfoLogger.Printf("Subscription created: restaurant=%d plan=%s", restaurant.ID, plan.Name)
	utils.RespondJSON(c, http.StatusCreated, "Subscription created", subscription)
}

// CurrentSubscription -> the active subscription, 404 when none
func (pc *PlanController) CurrentSubscription(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	sub, err := pc.Plans.ActiveSubscription(restaurant.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSubscription) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current subscription", sub)
}

// SubscriptionHistory -> all subscription rows, newest first
func (pc *PlanController) SubscriptionHistory(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var subs []models.Subscription
	if err := pc.DB.Preload("Plan").Where("restaurant_id = ?", restaurant.ID).
		Order("created_at DESC").Find(&subs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Subscription history", subs)
}

// PlanUsage -> quota usage report for the dashboard
func (pc *PlanController) PlanUsage(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	info, err := pc.Plans.GetPlanInfo(restaurant.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Plan usage", info)
}
