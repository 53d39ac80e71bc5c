package user

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/academia/core"
)

// Roles
const (
	RoleAdmin      = "ADMIN"
	RoleSecretaria = "SECRETARIA"
	RoleProfessor  = "PROFESSOR"
	RoleAluno      = "ALUNO"
)

// Active flags
const (
	Active   = "S"
	Inactive = "N"
)

var (
	AllRoles = []string{RoleAdmin, RoleSecretaria, RoleProfessor, RoleAluno}
	// StaffRoles may manage academic records.
	StaffRoles = []string{RoleAdmin, RoleSecretaria}

	rolePriorities = map[string]int{
		RoleAdmin:      4,
		RoleSecretaria: 3,
		RoleProfessor:  2,
		RoleAluno:      1,
	}

	Roles = []Role{
		{Name: "Administrador", Value: RoleAdmin},
		{Name: "Secretaria", Value: RoleSecretaria},
		{Name: "Professor", Value: RoleProfessor},
		{Name: "Aluno", Value: RoleAluno},
	}

	Schema = core.Schema[int64, User]{
		Table:      "usuarios",
		Key:        "id",
		KeyOf:      func(u *User) int64 { return u.ID },
		SetSeq:     func(u *User, id int64) { u.ID = id },
		Unique:     [][]string{{"username"}},
		Search:     []string{"username"},
		References: []core.Reference{{Column: "pessoa_id", Table: "pessoas"}},
	}
)

type Repository = core.Repository[int64, User]

func RolePriority(role string) int {
	return rolePriorities[role]
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID                    int64      `json:"id" db:"id"`
	PersonID              int64      `json:"pessoaId" db:"pessoa_id"`
	Username              string     `json:"username" db:"username"`
	Role                  string     `json:"role" db:"role"`
	IsActive              string     `json:"isActive" db:"is_active"`
	PasswordHash          []byte     `json:"-" db:"password_hash"`
	ResetTokenHash        *string    `json:"-" db:"reset_token_hash"`
	ResetTokenExpiresAt   *time.Time `json:"-" db:"reset_token_expires_at"`
	RefreshTokenHash      *string    `json:"-" db:"refresh_token_hash"`
	RefreshTokenExpiresAt *time.Time `json:"-" db:"refresh_token_expires_at"`
	LastLogin             *time.Time `json:"lastLogin,omitempty" db:"last_login"` // UTC
	core.Timestamps
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) Active() bool  { return u.IsActive != Inactive }
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsStaff reports whether u belongs to the administration (admin or secretariat).
func (u *User) IsStaff() bool { return u.Role == RoleAdmin || u.Role == RoleSecretaria }

// hashToken is how reset and refresh tokens are kept at rest.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	PersonID int64  `json:"pessoaId" validate:"required,gt=0"`
	Username string `json:"username" validate:"required,min=3,max=50,alphanum_"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=ADMIN SECRETARIA PROFESSOR ALUNO"`
	IsActive string `json:"isActive" validate:"omitempty,flag"`
}

func (nu *NewUser) Clean() {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Role = core.CleanString(nu.Role)
	nu.IsActive = core.CleanString(nu.IsActive)
	if nu.IsActive == "" {
		nu.IsActive = Active
	}
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Clean()
	return core.ValidateStruct(validate, nu)
}

func (nu NewUser) Build() (User, error) {
	usr := User{
		PersonID: nu.PersonID,
		Username: nu.Username,
		Role:     nu.Role,
		IsActive: nu.IsActive,
	}
	if usr.IsActive == "" {
		usr.IsActive = Active
	}
	return usr, usr.SetPassword(nu.Password)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50,alphanum_"`
	Password *string `json:"password" validate:"omitempty"`
	Role     *string `json:"role" validate:"omitempty,oneof=ADMIN SECRETARIA PROFESSOR ALUNO"`
	IsActive *string `json:"isActive" validate:"omitempty,flag"`

	// current username, used by the password policy
	username string
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate) error {
	uu.Username = core.CleanStringPtr(uu.Username, true /* lower */)
	uu.Role = core.CleanStringPtr(uu.Role)
	uu.IsActive = core.CleanStringPtr(uu.IsActive)
	uu.username = origUsr.Username
	if uu.Username != nil {
		uu.username = *uu.Username
	}
	return core.ValidateStruct(validate, uu)
}

// Apply patches usr. The password is hashed here.
func (uu UpdateUser) Apply(usr *User) error {
	if uu.Username != nil {
		usr.Username = *uu.Username
	}
	if uu.Role != nil {
		usr.Role = *uu.Role
	}
	if uu.IsActive != nil {
		usr.IsActive = *uu.IsActive
	}
	if uu.Password != nil {
		return usr.SetPassword(*uu.Password)
	}
	return nil
}

type QueryFilter struct {
	Search   string `query:"search"`
	Role     string `query:"role"`
	IsActive string `query:"isActive"`
	PersonID int64  `query:"pessoaId"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = core.CleanString(qf.Role)
	qf.IsActive = core.CleanString(qf.IsActive)
}

func (qf QueryFilter) Filter() core.Filter {
	f := core.Filter{}.Matching(qf.Search, Schema.Search...)
	if qf.Role != "" {
		f = f.Where("role", qf.Role)
	}
	if qf.IsActive != "" {
		f = f.Where("is_active", qf.IsActive)
	}
	if qf.PersonID > 0 {
		f = f.Where("pessoa_id", qf.PersonID)
	}
	return f
}
