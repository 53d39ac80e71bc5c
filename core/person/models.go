package person

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// Sexes
const (
	SexMale   = "M"
	SexFemale = "F"
	SexOther  = "O"
)

var Schema = core.Schema[int64, Person]{
	Table:  "pessoas",
	Key:    "id",
	KeyOf:  func(p *Person) int64 { return p.ID },
	SetSeq: func(p *Person, id int64) { p.ID = id },
	Unique: [][]string{{"cpf"}},
	Search: []string{"nome_completo", "email", "cpf"},
}

type Repository = core.Repository[int64, Person]

type Person struct {
	ID        int64      `json:"id" db:"id"`
	FullName  string     `json:"nomeCompleto" db:"nome_completo"`
	Sex       *string    `json:"sexo,omitempty" db:"sexo"`
	Email     *string    `json:"email,omitempty" db:"email"`
	CPF       *string    `json:"cpf,omitempty" db:"cpf"`
	BirthDate *core.Date `json:"dataNascimento,omitempty" db:"data_nascimento"`
	Phone     *string    `json:"telefone,omitempty" db:"telefone"`
	Address   *Address   `json:"endereco,omitempty" db:"endereco"`
	core.Timestamps
}

// Summary is the embedded shape of a Person in related records.
type Summary struct {
	ID       int64   `json:"id"`
	FullName string  `json:"nomeCompleto"`
	Email    *string `json:"email,omitempty"`
	CPF      *string `json:"cpf,omitempty"`
}

func (p Person) Summary() Summary {
	return Summary{ID: p.ID, FullName: p.FullName, Email: p.Email, CPF: p.CPF}
}

// NewPerson contains information needed to create a new Person.
type NewPerson struct {
	FullName  string     `json:"nomeCompleto" validate:"required,notblank,min=3,max=150"`
	Sex       *string    `json:"sexo" validate:"omitempty,oneof=M F O"`
	Email     *string    `json:"email" validate:"omitempty,email,max=120"`
	CPF       *string    `json:"cpf" validate:"omitempty,cpf"`
	BirthDate *core.Date `json:"dataNascimento" validate:"omitempty,isodate"`
	Phone     *string    `json:"telefone" validate:"omitempty,phone"`
	Address   *Address   `json:"endereco"`
}

func (np *NewPerson) Clean() {
	np.FullName = core.CleanString(np.FullName)
	np.Sex = core.CleanStringPtr(np.Sex)
	np.Email = core.CleanStringPtr(np.Email, true /* lower */)
	np.CPF = cleanDigits(np.CPF)
	np.Phone = core.CleanStringPtr(np.Phone)
	if np.Address != nil {
		np.Address.Clean()
		if np.Address.IsZero() {
			np.Address = nil
		}
	}
}

func (np *NewPerson) Validate(validate *validator.Validate) error {
	np.Clean()
	return core.ValidateStruct(validate, np)
}

func (np NewPerson) Build() Person {
	return Person{
		FullName:  np.FullName,
		Sex:       np.Sex,
		Email:     np.Email,
		CPF:       np.CPF,
		BirthDate: np.BirthDate,
		Phone:     np.Phone,
		Address:   np.Address,
	}
}

// UpdatePerson defines what information may be provided to modify an existing Person.
type UpdatePerson struct {
	FullName  *string    `json:"nomeCompleto" validate:"omitempty,notblank,min=3,max=150"`
	Sex       *string    `json:"sexo" validate:"omitempty,oneof=M F O"`
	Email     *string    `json:"email" validate:"omitempty,email,max=120"`
	CPF       *string    `json:"cpf" validate:"omitempty,cpf"`
	BirthDate *core.Date `json:"dataNascimento" validate:"omitempty,isodate"`
	Phone     *string    `json:"telefone" validate:"omitempty,phone"`
	Address   *Address   `json:"endereco"`
}

func (up *UpdatePerson) Validate(validate *validator.Validate) error {
	up.FullName = core.CleanStringPtr(up.FullName)
	up.Sex = core.CleanStringPtr(up.Sex)
	up.Email = core.CleanStringPtr(up.Email, true /* lower */)
	up.CPF = cleanDigits(up.CPF)
	up.Phone = core.CleanStringPtr(up.Phone)
	if up.Address != nil {
		up.Address.Clean()
	}
	return core.ValidateStruct(validate, up)
}

func (up UpdatePerson) Apply(p *Person) {
	if up.FullName != nil {
		p.FullName = *up.FullName
	}
	if up.Sex != nil {
		p.Sex = up.Sex
	}
	if up.Email != nil {
		p.Email = up.Email
	}
	if up.CPF != nil {
		p.CPF = up.CPF
	}
	if up.BirthDate != nil {
		p.BirthDate = up.BirthDate
	}
	if up.Phone != nil {
		p.Phone = up.Phone
	}
	if up.Address != nil {
		if up.Address.IsZero() {
			p.Address = nil
		} else {
			p.Address = up.Address
		}
	}
}

// cleanDigits drops the punctuation of formatted documents (e.g. 123.456.789-09).
func cleanDigits(s *string) *string {
	s = core.CleanStringPtr(s)
	if s == nil {
		return nil
	}
	d := nonDigitRegex.ReplaceAllString(*s, "")
	if d == "" {
		// keep the raw value so that it is reported as invalid
		return s
	}
	return &d
}

const personRefText = "Informe exatamente um entre pessoaId e pessoa"

// CheckPersonRef enforces that a record references exactly one person:
// an existing one (pessoaId) or a new one (pessoa).
func CheckPersonRef(personID *int64, np *NewPerson) []core.FieldError {
	if (personID == nil) == (np == nil) {
		return []core.FieldError{{Field: "pessoaId", Error: personRefText}}
	}
	return nil
}
