package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"

	"unikurs_backend/internals/constants"
	certModel "unikurs_backend/internals/features/lms/certificates/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
)

func TestMarkVideoEnforcesOrdering(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 3)
	student := seedStudent(t, db, "s-2000")
	ledger := NewProgressLedger(db)

	videos := fx.Videos[fx.Sections[0].SectionID]

	// skipping ahead is refused and writes nothing
	_, err := ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[2].VideoID, true)
	if fe, ok := err.(*fiber.Error); !ok || fe.Code != fiber.StatusForbidden {
		t.Fatalf("marking out of order must 403, got %v", err)
	}
	var rows int64
	db.Model(&progressModel.VideoProgressModel{}).
		Where("video_progress_user_id = ?", student.UserID).
		Count(&rows)
	if rows != 0 {
		t.Fatalf("a denied mark must not write, got %d rows", rows)
	}

	// walking the chain in order passes the same check
	for _, v := range videos {
		if _, err := ledger.MarkVideo(student.UserID, constants.RoleStudent, v.VideoID, true); err != nil {
			t.Fatalf("mark in order: %v", err)
		}
	}

	// privileged roles are not chained
	admin := seedStudent(t, db, "a-2000")
	if _, err := ledger.MarkVideo(admin.UserID, constants.RoleAdmin, videos[2].VideoID, true); err != nil {
		t.Fatalf("privileged mark: %v", err)
	}
}

func TestMarkVideoFlooredPercentages(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 3)
	student := seedStudent(t, db, "s-2001")
	ledger := NewProgressLedger(db)

	videos := fx.Videos[fx.Sections[0].SectionID]

	snap, err := ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[0].VideoID, true)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if snap.SectionPercent != 33 {
		t.Fatalf("1/3 videos should floor to 33, got %v", snap.SectionPercent)
	}

	snap, _ = ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[1].VideoID, true)
	if snap.SectionPercent != 66 {
		t.Fatalf("2/3 videos should floor to 66, got %v", snap.SectionPercent)
	}

	snap, _ = ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[2].VideoID, true)
	if snap.SectionPercent != 100 {
		t.Fatalf("3/3 videos should be 100, got %v", snap.SectionPercent)
	}
	if snap.CoursePercent != 100 {
		t.Fatalf("single-section course should be 100, got %v", snap.CoursePercent)
	}
}

func TestMarkVideoIdempotentAndUnmark(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 2)
	student := seedStudent(t, db, "s-2002")
	ledger := NewProgressLedger(db)

	videos := fx.Videos[fx.Sections[0].SectionID]

	if _, err := ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[0].VideoID, true); err != nil {
		t.Fatalf("mark: %v", err)
	}
	// second mark of the same video must not double count
	snap, err := ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[0].VideoID, true)
	if err != nil {
		t.Fatalf("remark: %v", err)
	}
	if snap.SectionPercent != 50 {
		t.Fatalf("remark changed the percent: %v", snap.SectionPercent)
	}

	var rows int64
	db.Model(&progressModel.VideoProgressModel{}).
		Where("video_progress_user_id = ?", student.UserID).
		Count(&rows)
	if rows != 1 {
		t.Fatalf("expected one progress row, got %d", rows)
	}

	// unmark deletes the fact entirely
	snap, err = ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[0].VideoID, false)
	if err != nil {
		t.Fatalf("unmark: %v", err)
	}
	if snap.SectionPercent != 0 {
		t.Fatalf("unmark should drop percent to 0, got %v", snap.SectionPercent)
	}
	db.Model(&progressModel.VideoProgressModel{}).
		Where("video_progress_user_id = ?", student.UserID).
		Count(&rows)
	if rows != 0 {
		t.Fatalf("unmark should delete the row, got %d rows", rows)
	}
}

func TestSectionCompletionStampedOnceAndRegresses(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 2)
	student := seedStudent(t, db, "s-2003")
	ledger := NewProgressLedger(db)

	videos := fx.Videos[fx.Sections[0].SectionID]
	ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[0].VideoID, true)
	ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[1].VideoID, true)

	var sp progressModel.SectionProgressModel
	if err := db.First(&sp, "section_progress_user_id = ?", student.UserID).Error; err != nil {
		t.Fatalf("load section progress: %v", err)
	}
	if !sp.SectionProgressIsCompleted || sp.SectionProgressCompletedAt == nil {
		t.Fatal("section should be completed with a timestamp")
	}
	stamped := *sp.SectionProgressCompletedAt

	// regression clears completion
	ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[1].VideoID, false)
	spID := sp.SectionProgressID
	// re-read into a fresh struct: gorm leaves a reused pointer field
	// untouched when the column comes back NULL
	sp = progressModel.SectionProgressModel{}
	db.First(&sp, "section_progress_id = ?", spID)
	if sp.SectionProgressIsCompleted || sp.SectionProgressCompletedAt != nil {
		t.Fatal("regression below 100 must clear completion")
	}

	// completing again stamps a fresh transition
	ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[1].VideoID, true)
	db.First(&sp, "section_progress_id = ?", sp.SectionProgressID)
	if !sp.SectionProgressIsCompleted || sp.SectionProgressCompletedAt == nil {
		t.Fatal("re-completing must stamp again")
	}
	if sp.SectionProgressCompletedAt.Before(stamped) {
		t.Fatal("fresh completion must not predate the first one")
	}
}

func TestCertificateIssuedOnceWhenAllSectionsComplete(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 2, 1)
	student := seedStudent(t, db, "s-2004")
	ledger := NewProgressLedger(db)

	v1 := fx.Videos[fx.Sections[0].SectionID][0]
	v2 := fx.Videos[fx.Sections[1].SectionID][0]

	ledger.MarkVideo(student.UserID, constants.RoleStudent, v1.VideoID, true)

	var certs int64
	db.Model(&certModel.CertificateModel{}).Count(&certs)
	if certs != 0 {
		t.Fatal("no certificate before every section is complete")
	}

	ledger.MarkVideo(student.UserID, constants.RoleStudent, v2.VideoID, true)
	db.Model(&certModel.CertificateModel{}).Count(&certs)
	if certs != 1 {
		t.Fatalf("expected exactly one certificate, got %d", certs)
	}

	// further writes stay idempotent
	ledger.MarkVideo(student.UserID, constants.RoleStudent, v2.VideoID, true)
	ledger.MarkVideo(student.UserID, constants.RoleStudent, v1.VideoID, true)
	db.Model(&certModel.CertificateModel{}).Count(&certs)
	if certs != 1 {
		t.Fatalf("certificate must be issued once, got %d", certs)
	}

	var cert certModel.CertificateModel
	db.First(&cert)
	if cert.CertificateCourseTitle != fx.Course.CourseTitle {
		t.Fatalf("certificate should snapshot the course title, got %q", cert.CertificateCourseTitle)
	}
}
