package cmd

import (
	"fmt"
	"log"

	"github.com/bpohub/workforce/internal/rbac"
	rbacpg "github.com/bpohub/workforce/internal/rbac/postgres"
	"github.com/bpohub/workforce/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the module catalog, system roles and starter accounts",
	Long:  `Installs the navigation module catalog, the built-in system roles with their default grants, and a pair of starter accounts for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"user_module_permissions", "role_module_permissions", "pay_dispute_comments", "pay_disputes", "daily_time_records", "shift_schedules"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		repo := rbacpg.NewRBACRepository(db)
		if err := rbac.Seed(repo, logger.L()); err != nil {
			log.Fatalf("failed to seed modules and roles: %v", err)
		}

		adminRole, err := repo.GetRoleByName("admin")
		if err != nil || adminRole == nil {
			log.Fatalf("admin role missing after seed: %v", err)
		}
		agentRole, err := repo.GetRoleByName("agent")
		if err != nil || agentRole == nil {
			log.Fatalf("agent role missing after seed: %v", err)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		starterUsers := []struct {
			EmployeeNo string
			Email      string
			FullName   string
			RoleID     int64
			Campaign   string
			Department string
		}{
			{"ADM-0001", "admin@bpohub.local", "System Administrator", adminRole.ID, "", "IT"},
			{"EMP-0001", "agent@bpohub.local", "Sample Agent", agentRole.ID, "Acme Support", "Operations"},
		}

		for _, u := range starterUsers {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists; skipping\n", u.Email)
				continue
			}

			insert := `INSERT INTO users
				(employee_no, email, full_name, password_hash, role_id, campaign, department, employee_status, is_active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, 'Active', true, now(), now())`
			if err := db.Exec(insert, u.EmployeeNo, u.Email, u.FullName, string(hash), u.RoleID, u.Campaign, u.Department).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		fmt.Println("Seeding complete")
	},
}
