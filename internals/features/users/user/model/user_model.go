package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unikurs_backend/internals/constants"
)

// UserModel maps the users table. Identity key is the external HEMIS id;
// the local uuid PK is never sent back to HEMIS.
type UserModel struct {
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	UserHemisID string    `gorm:"column:user_hemis_id;type:varchar(255);uniqueIndex;not null" json:"user_hemis_id"`
	UserRole    string    `gorm:"column:user_role;type:varchar(20);not null;default:'student'" json:"user_role"`
	UserGroup   *string   `gorm:"column:user_group;type:varchar(30)" json:"user_group,omitempty"`

	UserFirstName *string `gorm:"column:user_first_name;type:varchar(255)" json:"user_first_name,omitempty"`
	UserLastName  *string `gorm:"column:user_last_name;type:varchar(255)" json:"user_last_name,omitempty"`
	UserThirdName *string `gorm:"column:user_third_name;type:varchar(255)" json:"user_third_name,omitempty"`
	UserImageURL  *string `gorm:"column:user_image_url;type:text" json:"user_image_url,omitempty"`
	UserKurs      *string `gorm:"column:user_kurs;type:varchar(30)" json:"user_kurs,omitempty"`
	UserAvgMark   float64 `gorm:"column:user_avg_mark;type:numeric(5,2);not null;default:0" json:"user_avg_mark"`

	UserPassword string `gorm:"column:user_password;not null" json:"-"`
	UserIsActive bool   `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(_ *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	if m.UserRole == "" {
		m.UserRole = constants.RoleStudent
	}
	return nil
}

func (m *UserModel) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{m.UserLastName, m.UserFirstName, m.UserThirdName} {
		if p != nil && strings.TrimSpace(*p) != "" {
			parts = append(parts, strings.TrimSpace(*p))
		}
	}
	if len(parts) == 0 {
		return "NO_NAME"
	}
	return strings.Join(parts, " ")
}

// IsPrivileged reports whether this user bypasses learner access gates.
func (m *UserModel) IsPrivileged() bool {
	return constants.IsPrivileged(m.UserRole)
}
