package service

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"unikurs_backend/internals/constants"
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
	if err := db.AutoMigrate(&userModel.UserModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func hemisStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		fmt.Fprint(w, `{"token":"test-token"}`)
	})
	mux.HandleFunc("/hemis/students", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"total":2,"rows":[
			{"student_id_number":"390121100001","first_name":"Aziz","second_name":"Karimov","group_name":"KI-21-01","course":"3","avg_mark":"4.2",
			 "image":"{\"base_url\":\"https://img.hemis.uz\",\"path\":\"/students/1.jpg\"}"},
			{"student_id_number":"390121100002","first_name":"Malika","second_name":"Yusupova","group_name":"KI-21-02","course":"3","avg_mark":4.8,"image":""}
		]}`)
	})
	mux.HandleFunc("/hemis/teacher", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"total":1,"rows":[
			{"employee_id_number":"E-77","first_name":"Bobur","second_name":"Tursunov","department_name":"Axborot texnologiyalari kafedrasi"}
		]}`)
	})
	return httptest.NewServer(mux)
}

func TestRunImportsStudentsAndTeachers(t *testing.T) {
	db := testDB(t)
	srv := hemisStub(t)
	defer srv.Close()

	svc := &HemisImportService{DB: db, Client: srv.Client(), BaseURL: srv.URL}

	sum, err := svc.Run(ImportOptions{Only: "both"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Created != 3 || sum.Updated != 0 || sum.Errors != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	var student userModel.UserModel
	if err := db.First(&student, "user_hemis_id = ?", "390121100001").Error; err != nil {
		t.Fatalf("student missing: %v", err)
	}
	if student.UserRole != constants.RoleStudent {
		t.Fatalf("role mismatch: %s", student.UserRole)
	}
	if student.UserGroup == nil || *student.UserGroup != "KI-21-01" {
		t.Fatalf("group mismatch: %v", student.UserGroup)
	}
	if student.UserAvgMark != 4.2 {
		t.Fatalf("avg mark mismatch: %v", student.UserAvgMark)
	}
	if student.UserImageURL == nil || *student.UserImageURL != "https://img.hemis.uz/students/1.jpg" {
		t.Fatalf("image url mismatch: %v", student.UserImageURL)
	}
	// initial password is the hemis id
	if bcrypt.CompareHashAndPassword([]byte(student.UserPassword), []byte("390121100001")) != nil {
		t.Fatal("initial password must be the hemis id")
	}

	var teacher userModel.UserModel
	if err := db.First(&teacher, "user_hemis_id = ?", "E-77").Error; err != nil {
		t.Fatalf("teacher missing: %v", err)
	}
	if teacher.UserRole != constants.RoleTeacher {
		t.Fatalf("teacher role mismatch: %s", teacher.UserRole)
	}
	if teacher.UserGroup == nil || *teacher.UserGroup != "Axborot texnologiyalari kafedr" {
		t.Fatalf("department should be truncated to 30 chars, got %v", teacher.UserGroup)
	}
}

func TestRunSecondPassUpdates(t *testing.T) {
	db := testDB(t)
	srv := hemisStub(t)
	defer srv.Close()

	svc := &HemisImportService{DB: db, Client: srv.Client(), BaseURL: srv.URL}

	if _, err := svc.Run(ImportOptions{Only: "students"}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	sum, err := svc.Run(ImportOptions{Only: "students"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sum.Created != 0 || sum.Updated != 2 {
		t.Fatalf("second pass must update, not create: %+v", sum)
	}

	var rows int64
	db.Model(&userModel.UserModel{}).Count(&rows)
	if rows != 2 {
		t.Fatalf("expected 2 users, got %d", rows)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	db := testDB(t)
	srv := hemisStub(t)
	defer srv.Close()

	svc := &HemisImportService{DB: db, Client: srv.Client(), BaseURL: srv.URL}

	sum, err := svc.Run(ImportOptions{Only: "both", DryRun: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Created != 3 {
		t.Fatalf("dry run still counts: %+v", sum)
	}

	var rows int64
	db.Model(&userModel.UserModel{}).Count(&rows)
	if rows != 0 {
		t.Fatalf("dry run must not write, got %d rows", rows)
	}
}
