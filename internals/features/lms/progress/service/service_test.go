package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

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
		&catalogModel.VideoModel{},
		&progressModel.VideoProgressModel{},
		&progressModel.SectionProgressModel{},
		&progressModel.CourseProgressModel{},
		&certModel.CertificateModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	Course   catalogModel.CourseModel
	Sections []catalogModel.SectionModel
	Videos   map[uuid.UUID][]catalogModel.VideoModel // keyed by section id
}

// seedCourse builds a course with the given number of sections and videos per
// section. The first section is open, the rest start blocked, matching how
// authors publish content.
func seedCourse(t *testing.T, db *gorm.DB, sections, videosPer int) *fixture {
	t.Helper()

	category := catalogModel.CategoryModel{CategoryTitle: "Informatika"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	course := catalogModel.CourseModel{
		CourseCategoryID:       category.CategoryID,
		CourseTitle:            "Algoritmlar asoslari",
		CourseAuthor:           "A. Karimov",
		CourseSmallDescription: "kirish kursi",
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	fx := &fixture{Course: course, Videos: map[uuid.UUID][]catalogModel.VideoModel{}}
	for i := 0; i < sections; i++ {
		section := catalogModel.SectionModel{
			SectionCourseID:  course.CourseID,
			SectionTitle:     fmt.Sprintf("Bo'lim %d", i+1),
			SectionIsBlocked: i > 0,
		}
		if err := db.Create(&section).Error; err != nil {
			t.Fatalf("seed section: %v", err)
		}
		fx.Sections = append(fx.Sections, section)

		for j := 0; j < videosPer; j++ {
			video := catalogModel.VideoModel{
				VideoSectionID: section.SectionID,
				VideoTitle:     fmt.Sprintf("Video %d.%d", i+1, j+1),
				VideoFileURL:   "https://cdn.example.com/v.mp4",
				VideoIsBlocked: !(i == 0 && j == 0),
			}
			if err := db.Create(&video).Error; err != nil {
				t.Fatalf("seed video: %v", err)
			}
			fx.Videos[section.SectionID] = append(fx.Videos[section.SectionID], video)
		}
	}
	return fx
}

func seedStudent(t *testing.T, db *gorm.DB, hemisID string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		UserHemisID:  hemisID,
		UserPassword: "x",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
