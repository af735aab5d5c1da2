package models

import "time"

const (
	StaffRoleManager = "MANAGER"
	StaffRoleChef    = "CHEF"
	StaffRoleWaiter  = "WAITER"
	StaffRoleCashier = "CASHIER"
)

const (
	StaffStatusActive    = "ACTIVE"
	StaffStatusInactive  = "INACTIVE"
	StaffStatusSuspended = "SUSPENDED"
)

// StaffMember belongs to a restaurant and is linked to a user account once
// the invitation is accepted. Capability flags gate what a staff token may do.
type StaffMember struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"uniqueIndex:idx_staff_restaurant_email;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"-"`
	UserID       *uint      `gorm:"index" json:"user_id,omitempty"`
	User         *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex:idx_staff_restaurant_email;not null" json:"email"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Phone        string     `gorm:"type:varchar(20)" json:"phone"`
	Role         string     `gorm:"type:varchar(50);not null" json:"role"`
	Status       string     `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`

	CanViewOrders    bool `gorm:"not null;default:true" json:"can_view_orders"`
	CanUpdateOrders  bool `gorm:"not null;default:false" json:"can_update_orders"`
	CanViewMenu      bool `gorm:"not null;default:true" json:"can_view_menu"`
	CanEditMenu      bool `gorm:"not null;default:false" json:"can_edit_menu"`
	CanViewTables    bool `gorm:"not null;default:true" json:"can_view_tables"`
	CanEditTables    bool `gorm:"not null;default:false" json:"can_edit_tables"`
	CanViewAnalytics bool `gorm:"not null;default:false" json:"can_view_analytics"`
	CanManageStaff   bool `gorm:"not null;default:false" json:"can_manage_staff"`

	InvitationToken      string     `gorm:"type:varchar(36);uniqueIndex" json:"invitation_token,omitempty"`
	InvitationSentAt     *time.Time `json:"invitation_sent_at,omitempty"`
	InvitationAcceptedAt *time.Time `json:"invitation_accepted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsInvited reports whether the member was invited but has not accepted yet.
func (s *StaffMember) IsInvited() bool {
	return s.InvitationToken != "" && s.InvitationAcceptedAt == nil
}

// IsActiveUser reports whether the member accepted the invitation and is active.
func (s *StaffMember) IsActiveUser() bool {
	return s.UserID != nil && s.Status == StaffStatusActive
}
