package postgres

import (
	"database/sql"

	"gorm.io/gorm"

	"github.com/bpohub/workforce/internal"
	"github.com/bpohub/workforce/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentialByEmail(email string) (*auth.Credential, error) {
	var cred auth.Credential
	query := `SELECT id, email, password_hash, is_active FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&cred.UserID, &cred.Email, &cred.PasswordHash, &cred.IsActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *Repository) GetSessionUser(userID int64) (*internal.SessionUser, error) {
	var user internal.SessionUser
	var roleID sql.NullInt64
	var roleName sql.NullString

	query := `SELECT u.id, u.employee_no, u.email, u.full_name, u.role_id, r.name, u.is_active
	          FROM users u
	          LEFT JOIN roles r ON r.id = u.role_id
	          WHERE u.id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.EmployeeNo, &user.Email, &user.FullName, &roleID, &roleName, &user.IsActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if roleID.Valid {
		user.RoleID = roleID.Int64
	}
	if roleName.Valid {
		user.RoleName = roleName.String
	}

	return &user, nil
}
