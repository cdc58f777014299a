package dto

import (
	"github.com/google/uuid"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
)

/* ===============================
   Admin write payloads
=================================*/

type CreateCategoryRequest struct {
	CategoryTitle    string  `json:"category_title" validate:"required,max=255"`
	CategoryImageURL *string `json:"category_image_url" validate:"omitempty,url"`
}

type UpdateCategoryRequest struct {
	CategoryTitle    *string `json:"category_title" validate:"omitempty,max=255"`
	CategoryImageURL *string `json:"category_image_url" validate:"omitempty,url"`
}

type CreateCourseRequest struct {
	CourseCategoryID       uuid.UUID `json:"course_category_id" validate:"required"`
	CourseTitle            string    `json:"course_title" validate:"required,max=255"`
	CourseAuthor           string    `json:"course_author" validate:"required,max=255"`
	CourseImageURL         *string   `json:"course_image_url" validate:"omitempty,url"`
	CourseIntroVideoURL    *string   `json:"course_intro_video_url" validate:"omitempty,url"`
	CourseSmallDescription string    `json:"course_small_description" validate:"required"`
}

type UpdateCourseRequest struct {
	CourseCategoryID       *uuid.UUID `json:"course_category_id"`
	CourseTitle            *string    `json:"course_title" validate:"omitempty,max=255"`
	CourseAuthor           *string    `json:"course_author" validate:"omitempty,max=255"`
	CourseImageURL         *string    `json:"course_image_url" validate:"omitempty,url"`
	CourseIntroVideoURL    *string    `json:"course_intro_video_url" validate:"omitempty,url"`
	CourseIsBlocked        *bool      `json:"course_is_blocked"`
	CourseSmallDescription *string    `json:"course_small_description"`
}

type AssignTeachersRequest struct {
	TeacherIDs []uuid.UUID `json:"teacher_ids" validate:"required,min=1"`
}

type CreateSectionRequest struct {
	SectionCourseID         uuid.UUID `json:"section_course_id" validate:"required"`
	SectionTitle            string    `json:"section_title" validate:"required,max=255"`
	SectionSmallDescription string    `json:"section_small_description"`
	SectionIsBlocked        *bool     `json:"section_is_blocked"`
	SectionOrder            int       `json:"section_order" validate:"omitempty,gte=0"`
}

type UpdateSectionRequest struct {
	SectionTitle            *string `json:"section_title" validate:"omitempty,max=255"`
	SectionSmallDescription *string `json:"section_small_description"`
	SectionIsBlocked        *bool   `json:"section_is_blocked"`
	SectionOrder            *int    `json:"section_order" validate:"omitempty,gt=0"`
}

type CreateVideoRequest struct {
	VideoSectionID        uuid.UUID `json:"video_section_id" validate:"required"`
	VideoTitle            string    `json:"video_title" validate:"required,max=255"`
	VideoFileURL          string    `json:"video_file_url" validate:"required,url"`
	VideoSmallDescription string    `json:"video_small_description"`
	VideoIsBlocked        *bool     `json:"video_is_blocked"`
	VideoOrder            int       `json:"video_order" validate:"omitempty,gte=0"`
}

type UpdateVideoRequest struct {
	VideoTitle            *string `json:"video_title" validate:"omitempty,max=255"`
	VideoFileURL          *string `json:"video_file_url" validate:"omitempty,url"`
	VideoSmallDescription *string `json:"video_small_description"`
	VideoIsBlocked        *bool   `json:"video_is_blocked"`
	VideoOrder            *int    `json:"video_order" validate:"omitempty,gt=0"`
}

/* ===============================
   Learner write payloads
=================================*/

type RateVideoRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

/* ===============================
   Learner-facing read shapes
=================================*/

// VideoWithAccess decorates a video with everything the player screen needs
// in one round trip.
type VideoWithAccess struct {
	catalogModel.VideoModel
	HasAccess    bool    `json:"has_access"`
	IsCompleted  bool    `json:"is_completed"`
	RatingAvg    float64 `json:"rating_avg"`
	RatingCount  int64   `json:"rating_count"`
	UserRating   *int    `json:"user_rating,omitempty"`
	CommentCount int64   `json:"comment_count"`
}

type SectionSummary struct {
	catalogModel.SectionModel
	VideoCount   int64   `json:"video_count"`
	ScorePercent float64 `json:"score_percent"`
	IsCompleted  bool    `json:"is_completed"`
}

type CourseDetailResponse struct {
	Course          catalogModel.CourseModel `json:"course"`
	Sections        []SectionSummary         `json:"sections"`
	ProgressPercent int                      `json:"progress_percent"`
	HasCertificate  bool                     `json:"has_certificate"`
}

type QuizSummary struct {
	QuizID       uuid.UUID `json:"quiz_id"`
	QuizTitle    string    `json:"quiz_title"`
	IsAccessible bool      `json:"is_accessible"`
}

type SectionDetailResponse struct {
	Section            catalogModel.SectionModel `json:"section"`
	Videos             []VideoWithAccess         `json:"videos"`
	Quiz               *QuizSummary              `json:"quiz,omitempty"`
	MissionsAccessible bool                      `json:"missions_accessible"`
}
