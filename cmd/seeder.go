package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the bootstrap dataset",
	Long:  `Seed roles, departments, menus, the default admin account, system configuration and HR sample data.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			clearTables(db)
		}

		seedRoles(db)
		seedDepartments(db)
		seedMenus(db)
		grantAllMenus(db)
		seedAdmin(db, cfg.Security.BCryptCost)
		seedSystemConfig(db)
		seedEmployees(db)
		seedPositions(db)
		seedBenefits(db)

		fmt.Println("Seeding complete. Default account: admin / admin123")
	},
}

func clearTables(db *gorm.DB) {
	tables := []string{
		"employee_benefits", "benefits", "salary_records", "performance_evaluations",
		"compensatory_leaves", "leave_requests", "work_schedules", "attendance_records",
		"job_applications", "job_positions", "employees",
		"operation_logs", "system_config", "role_menus", "menus", "users",
		"departments", "roles",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}

func seedRoles(db *gorm.DB) {
	roles := []struct {
		Name        string
		Description string
		Permissions string
	}{
		{"超级管理员", "系统超级管理员，拥有所有权限", "*"},
		{"管理员", "系统管理员", "user,role,menu,department,system"},
		{"普通用户", "普通用户", "user:view"},
	}
	for _, r := range roles {
		err := db.Exec(
			"INSERT OR IGNORE INTO roles (name, description, permissions) VALUES (?, ?, ?)",
			r.Name, r.Description, r.Permissions,
		).Error
		if err != nil {
			log.Fatalf("failed to seed role %s: %v", r.Name, err)
		}
	}
	fmt.Println("Seeded roles")
}

func seedDepartments(db *gorm.DB) {
	departments := []struct {
		Name        string
		Description string
		ParentID    int64
		SortOrder   int
	}{
		{"总部", "公司总部", 0, 1},
		{"信息科", "信息技术部门", 1, 1},
		{"医务科", "医务管理部门", 1, 2},
		{"护理部", "护理管理部门", 1, 3},
	}
	for _, d := range departments {
		var exists int64
		if err := db.Raw("SELECT COUNT(*) FROM departments WHERE name = ?", d.Name).Scan(&exists).Error; err != nil {
			log.Fatalf("failed to check department %s: %v", d.Name, err)
		}
		if exists > 0 {
			continue
		}
		err := db.Exec(
			"INSERT INTO departments (name, description, parent_id, sort_order) VALUES (?, ?, ?, ?)",
			d.Name, d.Description, d.ParentID, d.SortOrder,
		).Error
		if err != nil {
			log.Fatalf("failed to seed department %s: %v", d.Name, err)
		}
	}
	fmt.Println("Seeded departments")
}

func seedMenus(db *gorm.DB) {
	menus := []struct {
		Name        string
		Path        string
		Component   *string
		Icon        string
		ParentID    int64
		SortOrder   int
		MenuType    int
		Permissions *string
	}{
		{"系统管理", "/system", nil, "Setting", 0, 1, 1, nil},
		{"用户管理", "/system/users", strPtr("system/users/index"), "User", 1, 1, 2, strPtr("user:view")},
		{"角色管理", "/system/roles", strPtr("system/roles/index"), "UserFilled", 1, 2, 2, strPtr("role:view")},
		{"菜单管理", "/system/menus", strPtr("system/menus/index"), "Menu", 1, 3, 2, strPtr("menu:view")},
		{"部门管理", "/system/departments", strPtr("system/departments/index"), "OfficeBuilding", 1, 4, 2, strPtr("department:view")},
		{"系统配置", "/system/config", strPtr("system/config/index"), "Tools", 1, 5, 2, strPtr("system:config")},
		{"操作日志", "/system/logs", strPtr("system/logs/index"), "Document", 1, 6, 2, strPtr("system:log")},
	}
	for _, m := range menus {
		var exists int64
		if err := db.Raw("SELECT COUNT(*) FROM menus WHERE path = ?", m.Path).Scan(&exists).Error; err != nil {
			log.Fatalf("failed to check menu %s: %v", m.Name, err)
		}
		if exists > 0 {
			continue
		}
		err := db.Exec(
			"INSERT INTO menus (name, path, component, icon, parent_id, sort_order, menu_type, permissions) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			m.Name, m.Path, m.Component, m.Icon, m.ParentID, m.SortOrder, m.MenuType, m.Permissions,
		).Error
		if err != nil {
			log.Fatalf("failed to seed menu %s: %v", m.Name, err)
		}
	}
	fmt.Println("Seeded menus")
}

func grantAllMenus(db *gorm.DB) {
	var roleID int64
	if err := db.Raw("SELECT id FROM roles WHERE name = ?", "超级管理员").Scan(&roleID).Error; err != nil || roleID == 0 {
		log.Fatalf("super admin role not found: %v", err)
	}

	err := db.Exec(
		"INSERT OR IGNORE INTO role_menus (role_id, menu_id) SELECT ?, id FROM menus", roleID,
	).Error
	if err != nil {
		log.Fatalf("failed to grant menus: %v", err)
	}
	fmt.Println("Granted all menus to the super admin role")
}

func seedAdmin(db *gorm.DB, bcryptCost int) {
	var exists int64
	if err := db.Raw("SELECT COUNT(*) FROM users WHERE username = ?", "admin").Scan(&exists).Error; err != nil {
		log.Fatalf("failed to check admin user: %v", err)
	}
	if exists > 0 {
		fmt.Println("Admin user already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcryptCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	var roleID int64
	if err := db.Raw("SELECT id FROM roles WHERE name = ?", "超级管理员").Scan(&roleID).Error; err != nil {
		log.Fatalf("super admin role not found: %v", err)
	}

	err = db.Exec(
		"INSERT INTO users (username, password, email, real_name, role_id, department_id) VALUES (?, ?, ?, ?, ?, 1)",
		"admin", string(hash), "admin@hospital.com", "系统管理员", roleID,
	).Error
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Println("Seeded admin user")
}

func seedSystemConfig(db *gorm.DB) {
	configs := []struct {
		Key         string
		Value       string
		Type        string
		Description string
	}{
		{"site_name", "医院综合管理平台", "string", "网站名称"},
		{"site_logo", "/uploads/logo.png", "string", "网站Logo"},
		{"max_login_attempts", "5", "number", "最大登录尝试次数"},
		{"session_timeout", "24", "number", "会话超时时间(小时)"},
		{"upload_max_size", "10", "number", "上传文件最大大小(MB)"},
	}
	for _, c := range configs {
		err := db.Exec(
			"INSERT OR IGNORE INTO system_config (config_key, config_value, config_type, description) VALUES (?, ?, ?, ?)",
			c.Key, c.Value, c.Type, c.Description,
		).Error
		if err != nil {
			log.Fatalf("failed to seed config %s: %v", c.Key, err)
		}
	}
	fmt.Println("Seeded system configuration")
}

func seedEmployees(db *gorm.DB) {
	employees := []struct {
		Number     string
		Name       string
		Gender     string
		BirthDate  string
		Phone      string
		Email      string
		Education  string
		Department int64
		Position   string
		HireDate   string
		Salary     float64
	}{
		{"EMP001", "张三", "男", "1990-01-15", "13800138001", "zhangsan@hospital.com", "本科", 2, "软件工程师", "2020-03-01", 8000},
		{"EMP002", "李小红", "女", "1992-06-20", "13800138003", "lixiaohong@hospital.com", "硕士", 3, "主治医师", "2021-08-15", 12000},
		{"EMP003", "王护士", "女", "1988-03-10", "13800138005", "wanghushi@hospital.com", "专科", 4, "护师", "2019-01-10", 6000},
	}
	for _, e := range employees {
		err := db.Exec(
			`INSERT OR IGNORE INTO employees
			 (employee_number, name, gender, birth_date, phone, email, education,
			  department_id, position, hire_date, salary)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Number, e.Name, e.Gender, e.BirthDate, e.Phone, e.Email, e.Education,
			e.Department, e.Position, e.HireDate, e.Salary,
		).Error
		if err != nil {
			log.Fatalf("failed to seed employee %s: %v", e.Number, err)
		}
	}
	fmt.Println("Seeded sample employees")
}

func seedPositions(db *gorm.DB) {
	positions := []struct {
		Title       string
		Department  int64
		Description string
		Requirement string
		SalaryMin   float64
		SalaryMax   float64
		Count       int
		PublishDate string
		Deadline    string
	}{
		{"软件开发工程师", 2, "负责医院信息系统的开发和维护", "计算机相关专业，3年以上开发经验", 8000, 15000, 2, "2024-01-01", "2024-02-01"},
		{"主治医师", 3, "负责患者诊疗工作", "医学专业，具有执业医师资格", 10000, 20000, 1, "2024-01-01", "2024-03-01"},
	}
	for _, p := range positions {
		var exists int64
		if err := db.Raw("SELECT COUNT(*) FROM job_positions WHERE title = ?", p.Title).Scan(&exists).Error; err != nil {
			log.Fatalf("failed to check position %s: %v", p.Title, err)
		}
		if exists > 0 {
			continue
		}
		err := db.Exec(
			`INSERT INTO job_positions
			 (title, department_id, description, requirements, salary_min, salary_max,
			  positions_count, publish_date, deadline, created_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			p.Title, p.Department, p.Description, p.Requirement, p.SalaryMin, p.SalaryMax,
			p.Count, p.PublishDate, p.Deadline,
		).Error
		if err != nil {
			log.Fatalf("failed to seed position %s: %v", p.Title, err)
		}
	}
	fmt.Println("Seeded job positions")
}

func seedBenefits(db *gorm.DB) {
	benefits := []struct {
		Name        string
		Type        string
		Description string
		Amount      float64
	}{
		{"五险一金", "社会保险", "基本社会保险和住房公积金", 1000},
		{"餐费补贴", "生活补贴", "每月餐费补贴", 500},
		{"交通补贴", "交通津贴", "每月交通费用补贴", 300},
		{"年终奖", "奖金", "年终绩效奖金", 0},
	}
	for _, b := range benefits {
		var exists int64
		if err := db.Raw("SELECT COUNT(*) FROM benefits WHERE name = ?", b.Name).Scan(&exists).Error; err != nil {
			log.Fatalf("failed to check benefit %s: %v", b.Name, err)
		}
		if exists > 0 {
			continue
		}
		err := db.Exec(
			"INSERT INTO benefits (name, type, description, amount) VALUES (?, ?, ?, ?)",
			b.Name, b.Type, b.Description, b.Amount,
		).Error
		if err != nil {
			log.Fatalf("failed to seed benefit %s: %v", b.Name, err)
		}
	}
	fmt.Println("Seeded benefits catalog")
}

func strPtr(s string) *string { return &s }
