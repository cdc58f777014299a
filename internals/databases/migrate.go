package database

import (
	"log"

	"gorm.io/gorm"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	certModel "unikurs_backend/internals/features/lms/certificates/model"
	missionModel "unikurs_backend/internals/features/lms/missions/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
	quizModel "unikurs_backend/internals/features/lms/quizzes/model"
	userModel "unikurs_backend/internals/features/users/user/model"
)

// MigrateAll runs AutoMigrate for every table, dependency order first.
func MigrateAll(db *gorm.DB) error {
	log.Println("🛠  running migrations...")
	err := db.AutoMigrate(
		&userModel.UserModel{},

		&catalogModel.CategoryModel{},
		&catalogModel.CourseModel{},
		&catalogModel.SectionModel{},
		&catalogModel.VideoModel{},
		&catalogModel.VideoRatingModel{},
		&catalogModel.CommentModel{},

		&progressModel.VideoProgressModel{},
		&progressModel.SectionProgressModel{},
		&progressModel.CourseProgressModel{},

		&quizModel.QuizModel{},
		&quizModel.QuestionModel{},
		&quizModel.QuizSessionModel{},
		&quizModel.QuizResultModel{},

		&missionModel.MissionModel{},
		&missionModel.MissionSubmissionModel{},

		&certModel.CertificateModel{},
	)
	if err != nil {
		return err
	}
	log.Println("✅ migrations done.")
	return nil
}
