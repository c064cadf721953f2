package auth_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hospadmin/hospital-admin/internal/audit"
	auditsqlite "github.com/hospadmin/hospital-admin/internal/audit/sqlite"
	"github.com/hospadmin/hospital-admin/internal/auth"
	authsqlite "github.com/hospadmin/hospital-admin/internal/auth/sqlite"
	menusqlite "github.com/hospadmin/hospital-admin/internal/menu/sqlite"
	"github.com/hospadmin/hospital-admin/internal/transport"
)

var loginSchema = []string{
	`CREATE TABLE roles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(50) UNIQUE NOT NULL,
		permissions TEXT,
		status INTEGER DEFAULT 1
	)`,
	`CREATE TABLE departments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(50) NOT NULL,
		status INTEGER DEFAULT 1
	)`,
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username VARCHAR(50) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		email VARCHAR(100),
		phone VARCHAR(20),
		real_name VARCHAR(50),
		avatar VARCHAR(255),
		status INTEGER DEFAULT 1,
		role_id INTEGER,
		department_id INTEGER
	)`,
	`CREATE TABLE menus (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(50) NOT NULL,
		parent_id INTEGER DEFAULT 0,
		sort_order INTEGER DEFAULT 0,
		status INTEGER DEFAULT 1
	)`,
	`CREATE TABLE role_menus (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role_id INTEGER NOT NULL,
		menu_id INTEGER NOT NULL,
		UNIQUE(role_id, menu_id)
	)`,
	`CREATE TABLE operation_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		action VARCHAR(50),
		resource VARCHAR(50),
		resource_id INTEGER,
		details TEXT,
		ip_address VARCHAR(45),
		user_agent TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

var _ = Describe("Login route", func() {
	var (
		db      *gorm.DB
		tokens  *auth.JWTTokenService
		handler *auth.Handler
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		for _, ddl := range loginSchema {
			Expect(db.Exec(ddl).Error).NotTo(HaveOccurred())
		}

		Expect(db.Exec("INSERT INTO roles (name, permissions) VALUES ('超级管理员', '*')").Error).NotTo(HaveOccurred())
		Expect(db.Exec("INSERT INTO departments (name) VALUES ('总部')").Error).NotTo(HaveOccurred())

		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Exec(
			`INSERT INTO users (username, password, real_name, role_id, department_id)
			 VALUES ('admin', ?, '系统管理员', 1, 1)`,
			string(hash),
		).Error).NotTo(HaveOccurred())

		recorder := audit.NewRecorder(auditsqlite.NewAuditRepository(db), lg)
		tokens = auth.NewJWTTokenService("integration-test-secret-0000", time.Hour)
		service := auth.NewService(
			authsqlite.NewAuthRepository(db), menusqlite.NewMenuRepository(db),
			tokens, recorder, bcrypt.MinCost, lg)
		handler = auth.NewHandler(transport.NewBaseHandler(lg, false), service)
	})

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.Login(w, req)
		return w
	}

	It("authenticates the seeded admin account", func() {
		w := login(`{"username":"admin","password":"admin123"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var env struct {
			Status string `json:"status"`
			Data   struct {
				Token string `json:"token"`
				User  struct {
					Username       string `json:"username"`
					RoleName       string `json:"role_name"`
					Permissions    string `json:"permissions"`
					DepartmentName string `json:"department_name"`
				} `json:"user"`
			} `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&env)).To(Succeed())
		Expect(env.Status).To(Equal("success"))
		Expect(env.Data.Token).NotTo(BeEmpty())
		Expect(env.Data.User.Username).To(Equal("admin"))
		Expect(env.Data.User.RoleName).To(Equal("超级管理员"))
		Expect(env.Data.User.Permissions).To(Equal("*"))
		Expect(env.Data.User.DepartmentName).To(Equal("总部"))

		userID, err := tokens.Verify(env.Data.Token)
		Expect(err).NotTo(HaveOccurred())
		Expect(userID).To(Equal(int64(1)))
	})

	It("never echoes the stored credential", func() {
		w := login(`{"username":"admin","password":"admin123"}`)
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	})

	It("records the login in the operation log", func() {
		login(`{"username":"admin","password":"admin123"}`)

		var count int64
		Expect(db.Raw(
			"SELECT COUNT(*) FROM operation_logs WHERE action = 'login' AND user_id = 1",
		).Scan(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1)))
	})

	It("answers a wrong password and an unknown user identically", func() {
		wrongPassword := login(`{"username":"admin","password":"nope"}`)
		unknownUser := login(`{"username":"ghost","password":"admin123"}`)

		Expect(wrongPassword.Code).To(Equal(http.StatusUnauthorized))
		Expect(unknownUser.Code).To(Equal(http.StatusUnauthorized))
		Expect(wrongPassword.Body.String()).To(Equal(unknownUser.Body.String()))
	})

	It("rejects a disabled account", func() {
		Expect(db.Exec("UPDATE users SET status = 0 WHERE username = 'admin'").Error).NotTo(HaveOccurred())

		w := login(`{"username":"admin","password":"admin123"}`)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a missing field before touching storage", func() {
		w := login(`{"username":"admin"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
