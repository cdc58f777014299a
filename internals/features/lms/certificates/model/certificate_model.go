package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CertificateModel snapshots course metadata at issue time, so renaming or
// re-staffing a course later does not rewrite certificates already handed out.
// The (user, course) pair is unique: one certificate per course, ever.
type CertificateModel struct {
	CertificateID       uuid.UUID `gorm:"column:certificate_id;type:uuid;primaryKey" json:"certificate_id"`
	CertificateUserID   uuid.UUID `gorm:"column:certificate_user_id;type:uuid;not null;uniqueIndex:uq_certificate_user_course" json:"certificate_user_id"`
	CertificateCourseID uuid.UUID `gorm:"column:certificate_course_id;type:uuid;not null;uniqueIndex:uq_certificate_user_course" json:"certificate_course_id"`

	CertificateCourseTitle  string         `gorm:"column:certificate_course_title;type:varchar(255);not null" json:"certificate_course_title"`
	CertificateCategoryName string         `gorm:"column:certificate_category_name;type:varchar(255)" json:"certificate_category_name"`
	CertificateTeachers     pq.StringArray `gorm:"column:certificate_teachers;type:text[]" json:"certificate_teachers"`

	CertificateIssuedAt time.Time `gorm:"column:certificate_issued_at;autoCreateTime" json:"certificate_issued_at"`
}

func (CertificateModel) TableName() string { return "certificates" }

func (m *CertificateModel) BeforeCreate(_ *gorm.DB) error {
	if m.CertificateID == uuid.Nil {
		m.CertificateID = uuid.New()
	}
	return nil
}
