package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "unikurs_backend/internals/features/users/user/model"
)

type CourseModel struct {
	CourseID         uuid.UUID `gorm:"column:course_id;type:uuid;primaryKey" json:"course_id"`
	CourseCategoryID uuid.UUID `gorm:"column:course_category_id;type:uuid;not null;index" json:"course_category_id"`

	CourseTitle            string  `gorm:"column:course_title;type:varchar(255);not null" json:"course_title"`
	CourseAuthor           string  `gorm:"column:course_author;type:varchar(255);not null" json:"course_author"`
	CourseImageURL         *string `gorm:"column:course_image_url;type:text" json:"course_image_url,omitempty"`
	CourseIntroVideoURL    *string `gorm:"column:course_intro_video_url;type:text" json:"course_intro_video_url,omitempty"`
	CourseIsBlocked        bool    `gorm:"column:course_is_blocked;not null;default:false" json:"course_is_blocked"`
	CourseSmallDescription string  `gorm:"column:course_small_description;type:text;not null" json:"course_small_description"`

	CourseCreatedAt time.Time `gorm:"column:course_created_at;autoCreateTime" json:"course_created_at"`
	CourseUpdatedAt time.Time `gorm:"column:course_updated_at;autoUpdateTime" json:"course_updated_at"`

	// m2m: only users with role=teacher end up here (enforced on assignment)
	Teachers []userModel.UserModel `gorm:"many2many:course_teachers;foreignKey:CourseID;joinForeignKey:CourseID;References:UserID;joinReferences:UserID" json:"teachers,omitempty"`
}

func (CourseModel) TableName() string { return "courses" }

func (m *CourseModel) BeforeCreate(_ *gorm.DB) error {
	if m.CourseID == uuid.Nil {
		m.CourseID = uuid.New()
	}
	return nil
}
