package database

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/iganosaigo/saigo.info-backend/security"
)

// User is the account record joined with its role name, as the rest of the
// application consumes it.
type User struct {
	ID             uint
	Email          string
	FullName       string
	HashedPassword string
	Disabled       bool
	RoleID         int16
	RoleName       string
}

// UserRef identifies an account either by numeric id or by email. The API
// boundary resolves the raw path segment into one of the two variants
// before it reaches the store.
type UserRef struct {
	id    uint
	email string
	byID  bool
}

func ByID(id uint) UserRef {
	return UserRef{id: id, byID: true}
}

func ByEmail(email string) UserRef {
	return UserRef{email: email}
}

func (s *Store) userSelect() *gorm.DB {
	return s.db.Table("accounts").
		Select("accounts.id, accounts.email, accounts.full_name, " +
			"accounts.hashed_password, accounts.disabled, accounts.role_id, " +
			"roles.name AS role_name").
		Joins("JOIN roles ON roles.id = accounts.role_id")
}

// GetUser fetches one account with its role name. Returns (nil, nil) when
// no account matches.
func (s *Store) GetUser(ref UserRef) (*User, error) {
	q := s.userSelect()
	if ref.byID {
		q = q.Where("accounts.id = ?", ref.id)
	} else {
		q = q.Where("accounts.email = ?", ref.email)
	}

	var user User
	result := q.Take(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "fetching account")
	}
	return &user, nil
}

func (s *Store) EmailExists(email string) (bool, error) {
	var count int64
	result := s.db.Model(&Account{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "checking email")
	}
	return count > 0, nil
}

// ListUsers returns every account ordered by id.
func (s *Store) ListUsers() ([]User, error) {
	var users []User
	result := s.userSelect().Order("accounts.id").Scan(&users)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "listing accounts")
	}
	return users, nil
}

// RoleIDByName resolves a role name to its id, 0 when the role is unknown.
func (s *Store) RoleIDByName(name string) (int16, error) {
	var role Role
	result := s.db.Where("name = ?", name).Take(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, errors.Wrap(result.Error, "fetching role")
	}
	return role.ID, nil
}

type CreateUserParams struct {
	Email    string
	FullName string
	Disabled bool
	RoleID   int16

	// Password is the plaintext, hashed on insert. Callers must not supply
	// a ready-made hash.
	Password     string
	PasswordHash string
}

// CreateUser inserts an account and returns the freshly fetched record.
func (s *Store) CreateUser(p CreateUserParams) (*User, error) {
	if p.PasswordHash != "" {
		return nil, errors.New("password hash cannot be supplied directly")
	}

	hash, err := security.HashPassword(p.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	account := Account{
		Email:          p.Email,
		FullName:       p.FullName,
		HashedPassword: hash,
		Disabled:       p.Disabled,
		RoleID:         p.RoleID,
	}
	if result := s.db.Create(&account); result.Error != nil {
		return nil, errors.Wrap(result.Error, "creating account")
	}

	return s.GetUser(ByEmail(p.Email))
}

type UpdateUserParams struct {
	Email    string
	FullName string
	Disabled bool
	RoleID   int16

	// Password is optional; when empty the stored hash is kept.
	Password string
}

// UpdateUser overwrites the editable columns of an account and returns the
// re-fetched record.
func (s *Store) UpdateUser(id uint, p UpdateUserParams) (*User, error) {
	updates := map[string]any{
		"email":     p.Email,
		"full_name": p.FullName,
		"disabled":  p.Disabled,
		"role_id":   p.RoleID,
	}
	if p.Password != "" {
		hash, err := security.HashPassword(p.Password)
		if err != nil {
			return nil, errors.Wrap(err, "hashing password")
		}
		updates["hashed_password"] = hash
	}

	result := s.db.Model(&Account{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "updating account")
	}

	return s.GetUser(ByID(id))
}

func (s *Store) SetDisabled(id uint, disabled bool) error {
	result := s.db.Model(&Account{}).Where("id = ?", id).
		Update("disabled", disabled)
	return errors.Wrap(result.Error, "updating disabled flag")
}

// ChangePassword stores a ready-made hash; hashing happens at the caller
// where the plaintext is verified.
func (s *Store) ChangePassword(id uint, passwordHash string) error {
	result := s.db.Model(&Account{}).Where("id = ?", id).
		Update("hashed_password", passwordHash)
	return errors.Wrap(result.Error, "changing password")
}

func (s *Store) DeleteUser(id uint) error {
	result := s.db.Delete(&Account{}, id)
	return errors.Wrap(result.Error, "deleting account")
}
