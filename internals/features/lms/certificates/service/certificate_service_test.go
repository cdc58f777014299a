package service

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"unikurs_backend/internals/constants"
	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	certModel "unikurs_backend/internals/features/lms/certificates/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
	userModel "unikurs_backend/internals/features/users/user/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&catalogModel.CategoryModel{},
		&catalogModel.CourseModel{},
		&catalogModel.SectionModel{},
		&progressModel.SectionProgressModel{},
		&progressModel.CourseProgressModel{},
		&certModel.CertificateModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCompletedCourse(t *testing.T, db *gorm.DB, percent int) (userModel.UserModel, catalogModel.CourseModel) {
	t.Helper()

	category := catalogModel.CategoryModel{CategoryTitle: "Tillar"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	teacher := userModel.UserModel{
		UserHemisID: "t-1", UserPassword: "x", UserRole: constants.RoleTeacher,
	}
	first := "Dilnoza"
	last := "Rahimova"
	teacher.UserFirstName = &first
	teacher.UserLastName = &last
	if err := db.Create(&teacher).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}

	course := catalogModel.CourseModel{
		CourseCategoryID:       category.CategoryID,
		CourseTitle:            "Ingliz tili B2",
		CourseAuthor:           "D. Rahimova",
		CourseSmallDescription: "til kursi",
		Teachers:               []userModel.UserModel{teacher},
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	section := catalogModel.SectionModel{SectionCourseID: course.CourseID, SectionTitle: "Unit 1"}
	if err := db.Create(&section).Error; err != nil {
		t.Fatalf("seed section: %v", err)
	}

	student := userModel.UserModel{UserHemisID: "c-1", UserPassword: "x"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}

	if err := db.Create(&progressModel.CourseProgressModel{
		CourseProgressUserID:      student.UserID,
		CourseProgressCourseID:    course.CourseID,
		CourseProgressPercent:     percent,
		CourseProgressIsCompleted: percent >= 100,
	}).Error; err != nil {
		t.Fatalf("seed course progress: %v", err)
	}
	return student, course
}

func TestGenerateManualRequiresFullProgress(t *testing.T) {
	db := testDB(t)
	student, course := seedCompletedCourse(t, db, 80)
	svc := NewCertificateService(db)

	_, err := svc.GenerateManual(student.UserID, course.CourseID)
	if fe, ok := err.(*fiber.Error); !ok || fe.Code != fiber.StatusBadRequest {
		t.Fatalf("80%% progress must 400, got %v", err)
	}
}

func TestGenerateManualIssuesAndConflicts(t *testing.T) {
	db := testDB(t)
	student, course := seedCompletedCourse(t, db, 100)
	svc := NewCertificateService(db)

	cert, err := svc.GenerateManual(student.UserID, course.CourseID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if cert.CertificateCourseTitle != course.CourseTitle {
		t.Fatalf("snapshot title mismatch: %q", cert.CertificateCourseTitle)
	}
	if cert.CertificateCategoryName != "Tillar" {
		t.Fatalf("snapshot category mismatch: %q", cert.CertificateCategoryName)
	}
	if len(cert.CertificateTeachers) != 1 || cert.CertificateTeachers[0] != "Rahimova Dilnoza" {
		t.Fatalf("snapshot teachers mismatch: %v", cert.CertificateTeachers)
	}

	// second issue for the same course is a conflict
	_, err = svc.GenerateManual(student.UserID, course.CourseID)
	if fe, ok := err.(*fiber.Error); !ok || fe.Code != fiber.StatusConflict {
		t.Fatalf("duplicate issue must 409, got %v", err)
	}

	var rows int64
	db.Model(&certModel.CertificateModel{}).Count(&rows)
	if rows != 1 {
		t.Fatalf("expected a single certificate, got %d", rows)
	}
}

func TestCheckCourse(t *testing.T) {
	db := testDB(t)
	student, course := seedCompletedCourse(t, db, 100)
	svc := NewCertificateService(db)

	_, found, err := svc.CheckCourse(student.UserID, course.CourseID)
	if err != nil || found {
		t.Fatalf("no certificate yet, got found=%v err=%v", found, err)
	}

	if _, err := svc.GenerateManual(student.UserID, course.CourseID); err != nil {
		t.Fatalf("generate: %v", err)
	}
	cert, found, err := svc.CheckCourse(student.UserID, course.CourseID)
	if err != nil || !found || cert == nil {
		t.Fatalf("certificate should be found, got found=%v err=%v", found, err)
	}
}
