package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"unikurs_backend/internals/configs"
	"unikurs_backend/internals/constants"
	userModel "unikurs_backend/internals/features/users/user/model"
)

const (
	studentsEndpoint = "/hemis/students"
	teachersEndpoint = "/hemis/teacher"

	pageSizeStudents = 200
	pageSizeTeachers = 200
)

// HemisImportService pulls the student/teacher roster from the university
// HEMIS API and upserts local users keyed by hemis_id. Initial password is
// the hemis_id itself (bcrypt), matching what the registrar hands out.
type HemisImportService struct {
	DB      *gorm.DB
	Client  *http.Client
	BaseURL string
}

func NewHemisImportService(db *gorm.DB) *HemisImportService {
	return &HemisImportService{
		DB:      db,
		Client:  &http.Client{Timeout: 5 * time.Minute},
		BaseURL: strings.TrimRight(configs.HemisBaseURL, "/"),
	}
}

type ImportOptions struct {
	Only           string // "students", "teachers", "both"
	ResetPasswords bool   // also reset passwords of existing users
	DryRun         bool   // log only, no writes
}

type ImportSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

type hemisRow struct {
	StudentIDNumber  string      `json:"student_id_number"`
	EmployeeIDNumber string      `json:"employee_id_number"`
	FirstName        string      `json:"first_name"`
	SecondName       string      `json:"second_name"`
	ThirdName        string      `json:"third_name"`
	GroupName        string      `json:"group_name"`
	DepartmentName   string      `json:"department_name"`
	Course           string      `json:"course"`
	AvgMark          interface{} `json:"avg_mark"`
	Image            interface{} `json:"image"`
	EmployeeImg      interface{} `json:"employee_img"`
}

type hemisPage struct {
	Total int         `json:"total"`
	Rows  []*hemisRow `json:"rows"`
}

func (s *HemisImportService) Run(opts ImportOptions) (*ImportSummary, error) {
	if s.BaseURL == "" {
		return nil, errors.New("HEMIS_BASE_URL is not configured")
	}
	if opts.Only == "" {
		opts.Only = "both"
	}

	token, err := s.apiLogin()
	if err != nil {
		return nil, fmt.Errorf("hemis login: %w", err)
	}

	sum := &ImportSummary{}

	if opts.Only == "students" || opts.Only == "both" {
		s.importRole(token, studentsEndpoint, pageSizeStudents, constants.RoleStudent, opts, sum)
	}
	if opts.Only == "teachers" || opts.Only == "both" {
		s.importRole(token, teachersEndpoint, pageSizeTeachers, constants.RoleTeacher, opts, sum)
	}

	log.Printf("[HemisImportService] SUMMARY created=%d updated=%d skipped=%d errors=%d dry_run=%v",
		sum.Created, sum.Updated, sum.Skipped, sum.Errors, opts.DryRun)
	return sum, nil
}

func (s *HemisImportService) importRole(token, endpoint string, pageSize int, role string, opts ImportOptions, sum *ImportSummary) {
	curr := 1
	total := -1

	for {
		page, err := s.fetchPage(token, endpoint, curr, pageSize)
		if err != nil {
			log.Printf("[HemisImportService] fetch page %d of %s failed: %v", curr, endpoint, err)
			sum.Errors++
			return
		}
		if total < 0 {
			total = page.Total
		}
		if len(page.Rows) == 0 {
			return
		}

		for _, row := range page.Rows {
			hemisID := strings.TrimSpace(row.StudentIDNumber)
			imgRaw := row.Image
			if role == constants.RoleTeacher {
				hemisID = strings.TrimSpace(row.EmployeeIDNumber)
				imgRaw = row.EmployeeImg
			}
			if hemisID == "" {
				sum.Skipped++
				log.Printf("✗ [%s] SKIP (no hemis_id) %s", role, fioOf(row))
				continue
			}

			created, err := s.upsert(hemisID, role, row, imgRaw, opts)
			if err != nil {
				sum.Errors++
				log.Printf("✗ [%s][ERROR] %s | hemis_id=%s | %v", role, fioOf(row), hemisID, err)
				continue
			}
			if created {
				sum.Created++
				log.Printf("✓ [%s][CREATED] %s | hemis_id=%s", role, fioOf(row), hemisID)
			} else {
				sum.Updated++
				log.Printf("✓ [%s][UPDATED] %s | hemis_id=%s", role, fioOf(row), hemisID)
			}
		}

		if curr*pageSize >= total {
			return
		}
		curr++
	}
}

func (s *HemisImportService) upsert(hemisID, role string, row *hemisRow, imgRaw interface{}, opts ImportOptions) (bool, error) {
	var user userModel.UserModel
	err := s.DB.First(&user, "user_hemis_id = ?", hemisID).Error
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !created {
		return false, err
	}
	if created {
		user = userModel.UserModel{UserHemisID: hemisID}
	}

	user.UserRole = role
	user.UserFirstName = strPtr(row.FirstName)
	user.UserLastName = strPtr(row.SecondName)
	user.UserThirdName = strPtr(row.ThirdName)

	if role == constants.RoleStudent {
		user.UserGroup = strPtr(truncate(row.GroupName, 30))
		user.UserKurs = strPtr(truncate(row.Course, 30))
		user.UserAvgMark = safeFloat(row.AvgMark)
	} else {
		user.UserGroup = strPtr(truncate(row.DepartmentName, 30))
	}

	if imgURL := buildImgURL(imgRaw); imgURL != "" {
		user.UserImageURL = &imgURL
	}

	if created || opts.ResetPasswords {
		hash, err := bcrypt.GenerateFromPassword([]byte(hemisID), bcrypt.DefaultCost)
		if err != nil {
			return created, err
		}
		user.UserPassword = string(hash)
	}

	if opts.DryRun {
		return created, nil
	}
	return created, s.DB.Save(&user).Error
}

/* ---------- HTTP ---------- */

func (s *HemisImportService) apiLogin() (string, error) {
	u := fmt.Sprintf("%s/auth/login?login=%s&password=%s",
		s.BaseURL, url.QueryEscape(configs.HemisLogin), url.QueryEscape(configs.HemisPassword))

	req, err := http.NewRequest(http.MethodPost, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("accept", "*/*")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if payload.Token == "" {
		return "", errors.New("HEMIS login returned no token")
	}
	return payload.Token, nil
}

func (s *HemisImportService) fetchPage(token, endpoint string, page, size int) (*hemisPage, error) {
	u := fmt.Sprintf("%s%s?currPage=%d&size=%d&descending=false&order_by_=id", s.BaseURL, endpoint, page, size)

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "*/*")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out hemisPage
	if err := sonic.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/* ---------- field coercion ---------- */

// HEMIS image fields arrive as a JSON string, an object, "" or `""`.
func buildImgURL(v interface{}) string {
	var obj map[string]interface{}
	switch t := v.(type) {
	case map[string]interface{}:
		obj = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" || s == `""` {
			return ""
		}
		if err := sonic.Unmarshal([]byte(s), &obj); err != nil {
			return ""
		}
	default:
		return ""
	}
	base, _ := obj["base_url"].(string)
	path, _ := obj["path"].(string)
	base = strings.TrimSpace(base)
	path = strings.TrimSpace(path)
	if base == "" || path == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func safeFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n]
	}
	return s
}

func fioOf(row *hemisRow) string {
	parts := []string{row.SecondName, row.FirstName, row.ThirdName}
	out := make([]string, 0, 3)
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	if len(out) == 0 {
		return "NO_NAME"
	}
	return strings.Join(out, " ")
}
