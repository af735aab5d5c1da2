package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/controllers"
	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/models"
)

func setupStaffTest(t *testing.T) (*gorm.DB, *models.Restaurant, *gin.Engine) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Restaurant{}, &models.StaffMember{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	user := models.User{Name: "Owner", Email: "owner@example.com", Password: "x", Role: models.RoleOwner}
	db.Create(&user)
	restaurant := models.Restaurant{OwnerID: user.ID, PublicID: "pub-abc", Name: "Testaurant", IsActive: true}
	db.Create(&restaurant)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	staffCtrl := controllers.NewStaffController(db)

	router.POST("/staff/invitations/:invite_token/accept", staffCtrl.AcceptInvitation)

	authed := router.Group("/api")
	authed.Use(func(c *gin.Context) {
		c.Set("restaurant", &restaurant)
		c.Next()
	})
	authed.GET("/staff", staffCtrl.GetAllStaff)
	authed.POST("/staff", staffCtrl.Invite)
	authed.POST("/staff/:staff_id/suspend", staffCtrl.Suspend)

	return db, &restaurant, router
}

func TestInviteAndAcceptStaff(t *testing.T) {
	db, restaurant, router := setupStaffTest(t)

	body := []byte(`{"name":"Kim","email":"kim@example.com","role":"WAITER"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/staff", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var member models.StaffMember
	assert.NoError(t, db.Where("email = ?", "kim@example.com").First(&member).Error)
	assert.Equal(t, models.StaffStatusInactive, member.Status)
	assert.True(t, member.IsInvited())
	assert.True(t, member.CanUpdateOrders)
	assert.False(t, member.CanManageStaff)

	// The roster reports one pending invitation.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/staff", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	var roster struct {
		Data struct {
			PendingInvitations int `json:"pending_invitations"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &roster))
	assert.Equal(t, 1, roster.Data.PendingInvitations)

	// The invitee sets a password and gets a staff account.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/staff/invitations/"+member.InvitationToken+"/accept",
		bytes.NewBuffer([]byte(`{"password":"letmein-please"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")

	assert.NoError(t, db.First(&member, member.ID).Error)
	assert.Equal(t, models.StaffStatusActive, member.Status)
	assert.NotNil(t, member.UserID)
	assert.NotNil(t, member.InvitationAcceptedAt)
	assert.Equal(t, restaurant.ID, member.RestaurantID)

	// Accepting twice is refused.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/staff/invitations/"+member.InvitationToken+"/accept",
		bytes.NewBuffer([]byte(`{"password":"letmein-please"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuspendStaff(t *testing.T) {
	db, restaurant, router := setupStaffTest(t)

	member := models.StaffMember{
		RestaurantID:    restaurant.ID,
		Name:            "Kim",
		Email:           "kim@example.com",
		Role:            models.StaffRoleChef,
		Status:          models.StaffStatusActive,
		InvitationToken: "tok-kim",
	}
	db.Create(&member)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/staff/%d/suspend", member.ID), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	db.First(&member, member.ID)
	assert.Equal(t, models.StaffStatusSuspended, member.Status)
}

func TestInviteRejectsUnknownRole(t *testing.T) {
	_, _, router := setupStaffTest(t)

	body := []byte(`{"name":"Kim","email":"kim@example.com","role":"JANITOR"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/staff", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffCanGatesCapabilities(t *testing.T) {
	db, restaurant, _ := setupStaffTest(t)

	member := models.StaffMember{
		RestaurantID:   restaurant.ID,
		Name:           "Kim",
		Email:          "kim@example.com",
		Role:           models.StaffRoleChef,
		Status:         models.StaffStatusActive,
		CanViewOrders:  true,
		CanManageStaff: false,
	}
	db.Create(&member)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Set("restaurant", restaurant)
		c.Set("staff", &member)
		c.Next()
	})
	allowed := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/orders", middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanViewOrders }), allowed)
	router.GET("/staff", middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanManageStaff }), allowed)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/orders", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/staff", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
