package service

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	certModel "unikurs_backend/internals/features/lms/certificates/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
)

type CertificateService struct {
	DB *gorm.DB
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{DB: db}
}

// EnsureCertificate issues a certificate when every section of the course has
// a completed SectionProgress row for the user. Safe to call after any
// progress write: it is a no-op when the course is unfinished or the
// certificate already exists.
func (s *CertificateService) EnsureCertificate(tx *gorm.DB, userID, courseID uuid.UUID) error {
	var existing int64
	if err := tx.Model(&certModel.CertificateModel{}).
		Where("certificate_user_id = ? AND certificate_course_id = ?", userID, courseID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var totalSections int64
	if err := tx.Model(&catalogModel.SectionModel{}).
		Where("section_course_id = ?", courseID).
		Count(&totalSections).Error; err != nil {
		return err
	}
	if totalSections == 0 {
		return nil
	}

	var doneSections int64
	if err := tx.Model(&progressModel.SectionProgressModel{}).
		Joins("JOIN sections ON sections.section_id = section_progress.section_progress_section_id").
		Where("sections.section_course_id = ?", courseID).
		Where("section_progress.section_progress_user_id = ? AND section_progress.section_progress_is_completed = ?", userID, true).
		Count(&doneSections).Error; err != nil {
		return err
	}
	if doneSections < totalSections {
		return nil
	}

	cert, err := s.buildSnapshot(tx, userID, courseID)
	if err != nil {
		return err
	}
	if err := tx.Create(cert).Error; err != nil {
		// concurrent issue lost the race on the unique index, fine
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	log.Printf("[CertificateService] issued certificate %s (user=%s course=%s)",
		cert.CertificateID, userID, courseID)
	return nil
}

// GenerateManual is the learner-initiated path: requires the course progress
// to already sit at 100 percent and refuses to issue twice.
func (s *CertificateService) GenerateManual(userID, courseID uuid.UUID) (*certModel.CertificateModel, error) {
	var out *certModel.CertificateModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&certModel.CertificateModel{}).
			Where("certificate_user_id = ? AND certificate_course_id = ?", userID, courseID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fiber.NewError(fiber.StatusConflict, "Certificate already issued for this course")
		}

		var cp progressModel.CourseProgressModel
		err := tx.Where("course_progress_user_id = ? AND course_progress_course_id = ?", userID, courseID).
			First(&cp).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Course is not completed yet")
			}
			return err
		}
		if cp.CourseProgressPercent < 100 {
			return fiber.NewError(fiber.StatusBadRequest, "Course is not completed yet")
		}

		cert, err := s.buildSnapshot(tx, userID, courseID)
		if err != nil {
			return err
		}
		if err := tx.Create(cert).Error; err != nil {
			return err
		}
		out = cert
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CertificateService) buildSnapshot(tx *gorm.DB, userID, courseID uuid.UUID) (*certModel.CertificateModel, error) {
	var course catalogModel.CourseModel
	if err := tx.Preload("Teachers").First(&course, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Course not found")
		}
		return nil, err
	}

	var categoryName string
	var category catalogModel.CategoryModel
	if err := tx.First(&category, "category_id = ?", course.CourseCategoryID).Error; err == nil {
		categoryName = category.CategoryTitle
	}

	teachers := make(pq.StringArray, 0, len(course.Teachers))
	for i := range course.Teachers {
		teachers = append(teachers, course.Teachers[i].FullName())
	}

	return &certModel.CertificateModel{
		CertificateUserID:       userID,
		CertificateCourseID:     courseID,
		CertificateCourseTitle:  course.CourseTitle,
		CertificateCategoryName: categoryName,
		CertificateTeachers:     teachers,
	}, nil
}

func (s *CertificateService) ListByUser(userID uuid.UUID) ([]certModel.CertificateModel, error) {
	var certs []certModel.CertificateModel
	if err := s.DB.
		Where("certificate_user_id = ?", userID).
		Order("certificate_issued_at DESC").
		Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

// CheckCourse reports whether the user already holds a certificate for the
// course, without issuing anything.
func (s *CertificateService) CheckCourse(userID, courseID uuid.UUID) (*certModel.CertificateModel, bool, error) {
	var cert certModel.CertificateModel
	err := s.DB.
		Where("certificate_user_id = ? AND certificate_course_id = ?", userID, courseID).
		First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &cert, true, nil
}
