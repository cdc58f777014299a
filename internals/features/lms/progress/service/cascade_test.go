package service

import (
	"testing"

	"gorm.io/gorm"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
)

func TestCompleteSectionUnblocksNext(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 3, 2)
	student := seedStudent(t, db, "s-3001")
	cascade := NewUnlockCascade(db)

	if !fx.Sections[1].SectionIsBlocked {
		t.Fatal("fixture: second section should start blocked")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return cascade.CompleteSection(tx, student.UserID, &fx.Sections[0])
	})
	if err != nil {
		t.Fatalf("complete section: %v", err)
	}

	var next catalogModel.SectionModel
	db.First(&next, "section_id = ?", fx.Sections[1].SectionID)
	if next.SectionIsBlocked {
		t.Fatal("next section must be unblocked")
	}

	var firstVideo catalogModel.VideoModel
	db.Where("video_section_id = ?", next.SectionID).
		Order("video_order ASC").First(&firstVideo)
	if firstVideo.VideoIsBlocked {
		t.Fatal("first video of the next section must be unblocked")
	}

	// only the immediate next section opens
	var third catalogModel.SectionModel
	db.First(&third, "section_id = ?", fx.Sections[2].SectionID)
	if !third.SectionIsBlocked {
		t.Fatal("the section after next must stay blocked")
	}

	var sp progressModel.SectionProgressModel
	if err := db.First(&sp,
		"section_progress_user_id = ? AND section_progress_section_id = ?",
		student.UserID, fx.Sections[0].SectionID).Error; err != nil {
		t.Fatalf("section progress row missing: %v", err)
	}
	if !sp.SectionProgressIsCompleted {
		t.Fatal("completed section must carry the flag")
	}
}

func TestCompleteSectionIdempotent(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 2, 1)
	student := seedStudent(t, db, "s-3002")
	cascade := NewUnlockCascade(db)

	for i := 0; i < 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			return cascade.CompleteSection(tx, student.UserID, &fx.Sections[0])
		})
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var rows int64
	db.Model(&progressModel.SectionProgressModel{}).
		Where("section_progress_user_id = ?", student.UserID).
		Count(&rows)
	if rows != 1 {
		t.Fatalf("expected one section progress row, got %d", rows)
	}
}

func TestCompleteLastSectionIsNoopForUnlock(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 1)
	student := seedStudent(t, db, "s-3003")
	cascade := NewUnlockCascade(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return cascade.CompleteSection(tx, student.UserID, &fx.Sections[0])
	})
	if err != nil {
		t.Fatalf("completing the last section must not fail: %v", err)
	}

	var cp progressModel.CourseProgressModel
	if err := db.First(&cp, "course_progress_user_id = ?", student.UserID).Error; err != nil {
		t.Fatalf("course progress missing: %v", err)
	}
	if cp.CourseProgressPercent != 100 || !cp.CourseProgressIsCompleted {
		t.Fatalf("course should read complete, got %d%%", cp.CourseProgressPercent)
	}
}
