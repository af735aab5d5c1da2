package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/utils"
)

var staffRoles = map[string]bool{
	models.StaffRoleManager: true,
	models.StaffRoleChef:    true,
	models.StaffRoleWaiter:  true,
	models.StaffRoleCashier: true,
}

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

// GetAllStaff -> staff roster with pending-invitation count
func (sc *StaffController) GetAllStaff(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var staff []models.StaffMember
	if err := sc.DB.Where("restaurant_id = ?", restaurant.ID).
		Preload("User").Order("name").Find(&staff).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pending := 0
	for i := range staff {
		if staff[i].IsInvited() {
			pending++
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Staff list", gin.H{
		"staff":               staff,
		"pending_invitations": pending,
	})
}

// Invite -> create a staff member with a fresh invitation token
func (sc *StaffController) Invite(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
		Phone string `json:"phone"`
		Role  string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !staffRoles[req.Role] {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown staff role"))
		return
	}

	now := time.Now()
	member := models.StaffMember{
		RestaurantID:     restaurant.ID,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Role:             req.Role,
		Status:           models.StaffStatusInactive,
		InvitationToken:  utils.NewToken(),
		InvitationSentAt: &now,
	}
	applyRoleDefaults(&member)

	if err := sc.DB.Create(&member).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("staff member already invited"))
		return
	}

	utils.InfoLogger.Printf("Staff invited: %s as %s (restaurant=%d)", member.Email, member.Role, restaurant.ID)
	utils.RespondJSON(c, http.StatusCreated, "Invitation sent", member)
}

// applyRoleDefaults seeds capability flags from the assigned role. The owner
// can still adjust individual flags afterwards.
func applyRoleDefaults(m *models.StaffMember) {
	switch m.Role {
	case models.StaffRoleManager:
		m.CanViewOrders = true
		m.CanUpdateOrders = true
		m.CanViewMenu = true
		m.CanEditMenu = true
		m.CanViewTables = true
		m.CanEditTables = true
		m.CanViewAnalytics = true
		m.CanManageStaff = true
	case models.StaffRoleChef:
		m.CanViewOrders = true
		m.CanUpdateOrders = true
		m.CanViewMenu = true
	case models.StaffRoleWaiter:
		m.CanViewOrders = true
		m.CanUpdateOrders = true
		m.CanViewMenu = true
		m.CanViewTables = true
	case models.StaffRoleCashier:
		m.CanViewOrders = true
		m.CanViewMenu = true
		m.CanViewAnalytics = true
	}
}

// UpdateStaff -> change role, phone or individual capability flags
func (sc *StaffController) UpdateStaff(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	member, ok := sc.findMember(c, restaurant.ID)
	if !ok {
		return
	}

	var req struct {
		Name             *string `json:"name"`
		Phone            *string `json:"phone"`
		Role             *string `json:"role"`
		CanViewOrders    *bool   `json:"can_view_orders"`
		CanUpdateOrders  *bool   `json:"can_update_orders"`
		CanViewMenu      *bool   `json:"can_view_menu"`
		CanEditMenu      *bool   `json:"can_edit_menu"`
		CanViewTables    *bool   `json:"can_view_tables"`
		CanEditTables    *bool   `json:"can_edit_tables"`
		CanViewAnalytics *bool   `json:"can_view_analytics"`
		CanManageStaff   *bool   `json:"can_manage_staff"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Role != nil {
		if !staffRoles[*req.Role] {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown staff role"))
			return
		}
		updates["role"] = *req.Role
	}
	for column, value := range map[string]*bool{
		"can_view_orders":    req.CanViewOrders,
		"can_update_orders":  req.CanUpdateOrders,
		"can_view_menu":      req.CanViewMenu,
		"can_edit_menu":      req.CanEditMenu,
		"can_view_tables":    req.CanViewTables,
		"can_edit_tables":    req.CanEditTables,
		"can_view_analytics": req.CanViewAnalytics,
		"can_manage_staff":   req.CanManageStaff,
	} {
		if value != nil {
			updates[column] = *value
		}
	}

	if len(updates) > 0 {
		if err := sc.DB.Model(member).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Staff member updated", member)
}

// ResendInvitation -> rotate the token for a not-yet-accepted invite
func (sc *StaffController) ResendInvitation(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	member, ok := sc.findMember(c, restaurant.ID)
	if !ok {
		return
	}
	if member.InvitationAcceptedAt != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invitation already accepted"))
		return
	}

	now := time.Now()
	if err := sc.DB.Model(member).Updates(map[string]interface{}{
		"invitation_token":   utils.NewToken(),
		"invitation_sent_at": &now,
	}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Invitation resent", member)
}

func (sc *StaffController) Suspend(c *gin.Context) {
	sc.setStatus(c, models.StaffStatusSuspended, "Staff member suspended")
}

func (sc *StaffController) Activate(c *gin.Context) {
	sc.setStatus(c, models.StaffStatusActive, "Staff member activated")
}

func (sc *StaffController) setStatus(c *gin.Context, status, message string) {
	restaurant := middlewares.CurrentRestaurant(c)

	member, ok := sc.findMember(c, restaurant.ID)
	if !ok {
		return
	}

	if err := sc.DB.Model(member).Update("status", status).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, member)
}

func (sc *StaffController) RemoveStaff(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	member, ok := sc.findMember(c, restaurant.ID)
	if !ok {
		return
	}

	if err := sc.DB.Delete(member).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff member removed", nil)
}

func (sc *StaffController) findMember(c *gin.Context, restaurantID uint) (*models.StaffMember, bool) {
	var member models.StaffMember
	if err := sc.DB.Where("id = ? AND restaurant_id = ?", c.Param("staff_id"), restaurantID).First(&member).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("staff member not found"))
		return nil, false
	}
	return &member, true
}

// AcceptInvitation -> public endpoint: the invitee sets a password and gets a
// STAFF account linked to the roster entry.
func (sc *StaffController) AcceptInvitation(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var member models.StaffMember
	if err := sc.DB.Where("invitation_token = ?", c.Param("invite_token")).First(&member).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("invitation not found"))
		return
	}
	if member.InvitationAcceptedAt != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invitation already accepted"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var token string
	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Name:     member.Name,
			Email:    member.Email,
			Password: string(hashed),
			Role:     models.RoleStaff,
		}
		if err := tx.Create(&user).Error; err != nil {
			return errors.New("an account with this email already exists")
		}

		now := time.Now()
		if err := tx.Model(&member).Updates(map[string]interface{}{
			"user_id":                user.ID,
			"status":                 models.StaffStatusActive,
			"invitation_accepted_at": &now,
		}).Error; err != nil {
			return err
		}

		token, err = utils.GenerateToken(user.ID, user.Role)
		return err
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.InfoLogger.Printf("Invitation accepted: %s (restaurant=%d)", member.Email, member.RestaurantID)
	utils.RespondJSON(c, http.StatusOK, "Invitation accepted", gin.H{
		"token": token,
		"staff": member,
	})
}
