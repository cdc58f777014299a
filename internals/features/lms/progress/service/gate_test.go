package service

import (
	"testing"

	"unikurs_backend/internals/constants"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
)

func TestCanAccessVideoChain(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 3)
	student := seedStudent(t, db, "s-1001")
	gate := NewAccessGate(db)
	ledger := NewProgressLedger(db)

	videos := fx.Videos[fx.Sections[0].SectionID]

	ok, err := gate.CanAccessVideo(student.UserID, constants.RoleStudent, &videos[0])
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if !ok {
		t.Fatal("first video of a section must always be open")
	}

	ok, _ = gate.CanAccessVideo(student.UserID, constants.RoleStudent, &videos[1])
	if ok {
		t.Fatal("second video must stay locked before the first is completed")
	}
	ok, _ = gate.CanAccessVideo(student.UserID, constants.RoleStudent, &videos[2])
	if ok {
		t.Fatal("third video must stay locked")
	}

	if _, err := ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[0].VideoID, true); err != nil {
		t.Fatalf("mark video 1: %v", err)
	}

	ok, _ = gate.CanAccessVideo(student.UserID, constants.RoleStudent, &videos[1])
	if !ok {
		t.Fatal("second video must open after the first is completed")
	}
	ok, _ = gate.CanAccessVideo(student.UserID, constants.RoleStudent, &videos[2])
	if ok {
		t.Fatal("third video must still be locked, only the immediate predecessor counts")
	}
}

func TestCanAccessVideoUnmarkRegression(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 3)
	student := seedStudent(t, db, "s-1002")
	gate := NewAccessGate(db)
	ledger := NewProgressLedger(db)

	videos := fx.Videos[fx.Sections[0].SectionID]
	for _, v := range videos[:2] {
		if _, err := ledger.MarkVideo(student.UserID, constants.RoleStudent, v.VideoID, true); err != nil {
			t.Fatalf("mark: %v", err)
		}
	}

	ok, _ := gate.CanAccessVideo(student.UserID, constants.RoleStudent, &videos[2])
	if !ok {
		t.Fatal("third video should be open after first two are done")
	}

	// retracting the first mark re-locks the second video but not the third:
	// only the immediate predecessor is consulted
	if _, err := ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[0].VideoID, false); err != nil {
		t.Fatalf("unmark: %v", err)
	}
	ok, _ = gate.CanAccessVideo(student.UserID, constants.RoleStudent, &videos[1])
	if ok {
		t.Fatal("second video must re-lock after the first mark is retracted")
	}
	ok, _ = gate.CanAccessVideo(student.UserID, constants.RoleStudent, &videos[2])
	if !ok {
		t.Fatal("third video stays open, its predecessor is still completed")
	}
}

func TestCanAccessQuizRequiresAllVideos(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 2)
	student := seedStudent(t, db, "s-1003")
	gate := NewAccessGate(db)
	ledger := NewProgressLedger(db)

	sectionID := fx.Sections[0].SectionID
	videos := fx.Videos[sectionID]

	ok, _ := gate.CanAccessQuiz(student.UserID, constants.RoleStudent, sectionID)
	if ok {
		t.Fatal("quiz must be locked with no videos done")
	}

	ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[0].VideoID, true)
	ok, _ = gate.CanAccessQuiz(student.UserID, constants.RoleStudent, sectionID)
	if ok {
		t.Fatal("quiz must be locked with one of two videos done")
	}

	ledger.MarkVideo(student.UserID, constants.RoleStudent, videos[1].VideoID, true)
	ok, _ = gate.CanAccessQuiz(student.UserID, constants.RoleStudent, sectionID)
	if !ok {
		t.Fatal("quiz must open once every video is done")
	}
}

func TestCanAccessMissionsRequiresLastVideo(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 3)
	student := seedStudent(t, db, "s-1004")
	gate := NewAccessGate(db)

	sectionID := fx.Sections[0].SectionID
	videos := fx.Videos[sectionID]

	ok, _ := gate.CanAccessMissions(student.UserID, constants.RoleStudent, sectionID)
	if ok {
		t.Fatal("missions must be locked before the last video is done")
	}

	// only the last-ordered video's completion fact matters to this gate
	if err := db.Create(&progressModel.VideoProgressModel{
		VideoProgressUserID:      student.UserID,
		VideoProgressVideoID:     videos[2].VideoID,
		VideoProgressIsCompleted: true,
	}).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}
	ok, _ = gate.CanAccessMissions(student.UserID, constants.RoleStudent, sectionID)
	if !ok {
		t.Fatal("missions must open once the last-ordered video is done")
	}
}

func TestPrivilegedRolesBypassGates(t *testing.T) {
	db := testDB(t)
	fx := seedCourse(t, db, 1, 3)
	admin := seedStudent(t, db, "a-1")
	gate := NewAccessGate(db)

	sectionID := fx.Sections[0].SectionID
	last := fx.Videos[sectionID][2]

	for _, role := range []string{constants.RoleAdmin, constants.RoleTeacher} {
		if ok, _ := gate.CanAccessVideo(admin.UserID, role, &last); !ok {
			t.Fatalf("role %s must bypass the video gate", role)
		}
		if ok, _ := gate.CanAccessQuiz(admin.UserID, role, sectionID); !ok {
			t.Fatalf("role %s must bypass the quiz gate", role)
		}
		if ok, _ := gate.CanAccessMissions(admin.UserID, role, sectionID); !ok {
			t.Fatalf("role %s must bypass the mission gate", role)
		}
	}
}
