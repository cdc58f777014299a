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
	"unikurs_backend/internals/features/lms/missions/dto"
	missionModel "unikurs_backend/internals/features/lms/missions/model"
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
		&missionModel.MissionModel{},
		&missionModel.MissionSubmissionModel{},
		&certModel.CertificateModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type missionFixture struct {
	Student     userModel.UserModel
	Section     catalogModel.SectionModel
	NextSection catalogModel.SectionModel
	Video       catalogModel.VideoModel
	Missions    []missionModel.MissionModel
}

func seedMissions(t *testing.T, db *gorm.DB, missions int) *missionFixture {
	t.Helper()

	category := catalogModel.CategoryModel{CategoryTitle: "Fizika"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	course := catalogModel.CourseModel{
		CourseCategoryID:       category.CategoryID,
		CourseTitle:            "Mexanika",
		CourseAuthor:           "D. Alimova",
		CourseSmallDescription: "amaliy kurs",
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	section := catalogModel.SectionModel{SectionCourseID: course.CourseID, SectionTitle: "Bo'lim 1"}
	next := catalogModel.SectionModel{SectionCourseID: course.CourseID, SectionTitle: "Bo'lim 2", SectionIsBlocked: true}
	if err := db.Create(&section).Error; err != nil {
		t.Fatalf("seed section: %v", err)
	}
	if err := db.Create(&next).Error; err != nil {
		t.Fatalf("seed next section: %v", err)
	}

	video := catalogModel.VideoModel{
		VideoSectionID: section.SectionID,
		VideoTitle:     "Video 1.1",
		VideoFileURL:   "https://cdn.example.com/v.mp4",
		VideoIsBlocked: false,
	}
	if err := db.Create(&video).Error; err != nil {
		t.Fatalf("seed video: %v", err)
	}

	fx := &missionFixture{Section: section, NextSection: next, Video: video}
	for i := 0; i < missions; i++ {
		m := missionModel.MissionModel{
			MissionSectionID: section.SectionID,
			MissionTitle:     fmt.Sprintf("Topshiriq %d", i+1),
		}
		if err := db.Create(&m).Error; err != nil {
			t.Fatalf("seed mission: %v", err)
		}
		fx.Missions = append(fx.Missions, m)
	}

	fx.Student = userModel.UserModel{UserHemisID: "m-1", UserPassword: "x"}
	if err := db.Create(&fx.Student).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return fx
}

func finishVideos(t *testing.T, db *gorm.DB, fx *missionFixture) {
	t.Helper()
	if err := db.Create(&progressModel.VideoProgressModel{
		VideoProgressUserID:      fx.Student.UserID,
		VideoProgressVideoID:     fx.Video.VideoID,
		VideoProgressIsCompleted: true,
	}).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}
}

func TestSubmitGatedUntilLastVideo(t *testing.T) {
	db := testDB(t)
	fx := seedMissions(t, db, 1)
	svc := NewMissionService(db)

	req := &dto.SubmitMissionRequest{FileURL: "https://files.example.com/work.pdf"}
	_, err := svc.Submit(fx.Student.UserID, constants.RoleStudent, fx.Missions[0].MissionID, req)
	if fe, ok := err.(*fiber.Error); !ok || fe.Code != fiber.StatusForbidden {
		t.Fatalf("submit before the last video must 403, got %v", err)
	}

	finishVideos(t, db, fx)
	sub, err := svc.Submit(fx.Student.UserID, constants.RoleStudent, fx.Missions[0].MissionID, req)
	if err != nil {
		t.Fatalf("submit after video: %v", err)
	}
	if sub.MissionSubmissionIsApproved {
		t.Fatal("fresh submission must not be pre-approved")
	}
}

func TestResubmitClearsReview(t *testing.T) {
	db := testDB(t)
	fx := seedMissions(t, db, 2)
	svc := NewMissionService(db)
	finishVideos(t, db, fx)

	sub, err := svc.Submit(fx.Student.UserID, constants.RoleStudent, fx.Missions[0].MissionID,
		&dto.SubmitMissionRequest{FileURL: "https://files.example.com/v1.pdf"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Review(sub.MissionSubmissionID,
		&dto.ReviewMissionRequest{Score: 95, IsApproved: true}); err != nil {
		t.Fatalf("review: %v", err)
	}

	again, err := svc.Submit(fx.Student.UserID, constants.RoleStudent, fx.Missions[0].MissionID,
		&dto.SubmitMissionRequest{FileURL: "https://files.example.com/v2.pdf"})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if again.MissionSubmissionID != sub.MissionSubmissionID {
		t.Fatal("resubmitting must reuse the submission slot")
	}
	if again.MissionSubmissionIsApproved || again.MissionSubmissionScore != 0 || again.MissionSubmissionReviewedAt != nil {
		t.Fatal("resubmitting must clear the earlier review")
	}
}

func TestSubmitTakesOverExistingRow(t *testing.T) {
	db := testDB(t)
	fx := seedMissions(t, db, 1)
	svc := NewMissionService(db)
	finishVideos(t, db, fx)

	// a row another request already landed for the same (user, mission)
	existing := missionModel.MissionSubmissionModel{
		MissionSubmissionUserID:    fx.Student.UserID,
		MissionSubmissionMissionID: fx.Missions[0].MissionID,
		MissionSubmissionFileURL:   "https://files.example.com/old.pdf",
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}

	sub, err := svc.Submit(fx.Student.UserID, constants.RoleStudent, fx.Missions[0].MissionID,
		&dto.SubmitMissionRequest{FileURL: "https://files.example.com/new.pdf"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.MissionSubmissionID != existing.MissionSubmissionID {
		t.Fatal("submit must update the existing row, not add a second one")
	}
	if sub.MissionSubmissionFileURL != "https://files.example.com/new.pdf" {
		t.Fatalf("file url not replaced: %q", sub.MissionSubmissionFileURL)
	}

	var rows int64
	db.Model(&missionModel.MissionSubmissionModel{}).
		Where("mission_submission_user_id = ?", fx.Student.UserID).
		Count(&rows)
	if rows != 1 {
		t.Fatalf("expected a single submission row, got %d", rows)
	}
}

func TestReviewApprovalCompletesSectionAtThreshold(t *testing.T) {
	db := testDB(t)
	fx := seedMissions(t, db, 2)
	svc := NewMissionService(db)
	finishVideos(t, db, fx)

	req := &dto.SubmitMissionRequest{FileURL: "https://files.example.com/work.pdf"}
	sub1, _ := svc.Submit(fx.Student.UserID, constants.RoleStudent, fx.Missions[0].MissionID, req)
	sub2, _ := svc.Submit(fx.Student.UserID, constants.RoleStudent, fx.Missions[1].MissionID, req)

	// 1 of 2 approved: 50 percent, below the 80 bar
	if _, err := svc.Review(sub1.MissionSubmissionID,
		&dto.ReviewMissionRequest{Score: 90, IsApproved: true}); err != nil {
		t.Fatalf("review 1: %v", err)
	}
	var next catalogModel.SectionModel
	db.First(&next, "section_id = ?", fx.NextSection.SectionID)
	if !next.SectionIsBlocked {
		t.Fatal("half-approved missions must not complete the section")
	}

	// 2 of 2 approved: 100 percent, section completes and cascade runs
	if _, err := svc.Review(sub2.MissionSubmissionID,
		&dto.ReviewMissionRequest{Score: 85, IsApproved: true}); err != nil {
		t.Fatalf("review 2: %v", err)
	}
	db.First(&next, "section_id = ?", fx.NextSection.SectionID)
	if next.SectionIsBlocked {
		t.Fatal("reaching the approval threshold must unblock the next section")
	}

	var sp progressModel.SectionProgressModel
	if err := db.First(&sp,
		"section_progress_user_id = ? AND section_progress_section_id = ?",
		fx.Student.UserID, fx.Section.SectionID).Error; err != nil {
		t.Fatalf("section progress missing: %v", err)
	}
	if !sp.SectionProgressIsCompleted {
		t.Fatal("section must be completed through the mission route")
	}
}

func TestReviewRejectionDoesNotCascade(t *testing.T) {
	db := testDB(t)
	fx := seedMissions(t, db, 1)
	svc := NewMissionService(db)
	finishVideos(t, db, fx)

	sub, _ := svc.Submit(fx.Student.UserID, constants.RoleStudent, fx.Missions[0].MissionID,
		&dto.SubmitMissionRequest{FileURL: "https://files.example.com/work.pdf"})
	if _, err := svc.Review(sub.MissionSubmissionID,
		&dto.ReviewMissionRequest{Score: 30, IsApproved: false}); err != nil {
		t.Fatalf("review: %v", err)
	}

	var next catalogModel.SectionModel
	db.First(&next, "section_id = ?", fx.NextSection.SectionID)
	if !next.SectionIsBlocked {
		t.Fatal("a rejected submission must not unlock anything")
	}
}
