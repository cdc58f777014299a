package service

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	certModel "unikurs_backend/internals/features/lms/certificates/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
	quizModel "unikurs_backend/internals/features/lms/quizzes/model"
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
		&quizModel.QuizModel{},
		&quizModel.QuestionModel{},
		&quizModel.QuizSessionModel{},
		&quizModel.QuizResultModel{},
		&certModel.CertificateModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type quizFixture struct {
	Student     userModel.UserModel
	Course      catalogModel.CourseModel
	Section     catalogModel.SectionModel
	NextSection catalogModel.SectionModel
	Quiz        quizModel.QuizModel
	Questions   []quizModel.QuestionModel
}

// seedQuiz builds a two-section course with a quiz on the first section.
// All questions have option 1 correct.
func seedQuiz(t *testing.T, db *gorm.DB, questions, count int, passPercent float64) *quizFixture {
	t.Helper()

	category := catalogModel.CategoryModel{CategoryTitle: "Matematika"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	course := catalogModel.CourseModel{
		CourseCategoryID:       category.CategoryID,
		CourseTitle:            "Diskret matematika",
		CourseAuthor:           "B. Tursunov",
		CourseSmallDescription: "asosiy kurs",
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}

	section := catalogModel.SectionModel{
		SectionCourseID: course.CourseID,
		SectionTitle:    "Bo'lim 1",
	}
	next := catalogModel.SectionModel{
		SectionCourseID:  course.CourseID,
		SectionTitle:     "Bo'lim 2",
		SectionIsBlocked: true,
	}
	if err := db.Create(&section).Error; err != nil {
		t.Fatalf("seed section: %v", err)
	}
	if err := db.Create(&next).Error; err != nil {
		t.Fatalf("seed next section: %v", err)
	}
	video := catalogModel.VideoModel{
		VideoSectionID: next.SectionID,
		VideoTitle:     "Video 2.1",
		VideoFileURL:   "https://cdn.example.com/v.mp4",
	}
	if err := db.Create(&video).Error; err != nil {
		t.Fatalf("seed video: %v", err)
	}

	quiz := quizModel.QuizModel{
		QuizSectionID:      section.SectionID,
		QuizTitle:          "Yakuniy test",
		QuizPassPercent:    passPercent,
		QuizQuestionsCount: count,
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	fx := &quizFixture{Course: course, Section: section, NextSection: next, Quiz: quiz}
	for i := 0; i < questions; i++ {
		q := quizModel.QuestionModel{
			QuestionQuizID:  quiz.QuizID,
			QuestionText:    fmt.Sprintf("Savol %d", i+1),
			QuestionOption1: "to'g'ri",
			QuestionOption2: "noto'g'ri",
			QuestionOption3: "noto'g'ri",
			QuestionOption4: "noto'g'ri",
			QuestionCorrect: "1",
		}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
		fx.Questions = append(fx.Questions, q)
	}

	fx.Student = userModel.UserModel{UserHemisID: "q-1", UserPassword: "x"}
	if err := db.Create(&fx.Student).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return fx
}
