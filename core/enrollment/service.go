// Package enrollment registers students and professors along with their person and login
// in a single transaction.
package enrollment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/person"
	"github.com/trezcool/academia/core/professor"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/user"
)

const (
	professorPrefix  = "P"
	maxCodeAttempts  = 10
	personFieldsPath = "pessoa"
)

var (
	ErrPersonNotFound = errors.New("pessoa não encontrada")
	ErrCodeExhausted  = errors.New("não foi possível gerar um código de matrícula único")
)

// StudentRecord is a created student along with its person and, when requested, its login.
type StudentRecord struct {
	student.Student
	Person person.Person `json:"pessoa"`
	User   *user.User    `json:"usuario,omitempty"`
}

// ProfessorRecord is a created professor along with its person and, when requested, its login.
type ProfessorRecord struct {
	professor.Professor
	Person person.Person `json:"pessoa"`
	User   *user.User    `json:"usuario,omitempty"`
}

type Service struct {
	tx         core.Transactor
	persons    *core.Service[int64, person.Person]
	students   *student.Service
	professors *professor.Service
	users      *user.Service
	newCode    func(prefix string) string
}

func NewService(
	tx core.Transactor,
	persons person.Repository,
	students *student.Service,
	professors *professor.Service,
	users *user.Service,
) *Service {
	return &Service{
		tx:         tx,
		persons:    core.NewService[int64, person.Person](persons),
		students:   students,
		professors: professors,
		users:      users,
		newCode:    randomCode,
	}
}

// CreateStudent registers a student. The payload must have been validated.
// Nothing is stored when any step fails.
func (svc *Service) CreateStudent(ctx context.Context, nsu student.NewStudentWithUser) (StudentRecord, error) {
	var rec StudentRecord
	err := svc.tx.Tx(ctx, func(ctx context.Context) error {
		p, err := svc.resolvePerson(ctx, nsu.PersonID, nsu.Person)
		if err != nil {
			return err
		}
		rec.Person = p

		s := nsu.Build(p.ID)
		if s.RA == "" {
			prefix := fmt.Sprintf("%02d", s.EntryYear%100)
			if s.RA, err = svc.uniqueCode(ctx, prefix, svc.studentExists); err != nil {
				return err
			}
		}
		if rec.Student, err = svc.students.Create(ctx, s); err != nil {
			return err
		}

		rec.User, err = svc.createUser(ctx, nsu.NewUser(p.ID))
		return err
	})
	return rec, err
}

// CreateProfessor registers a professor. The payload must have been validated.
// Nothing is stored when any step fails.
func (svc *Service) CreateProfessor(ctx context.Context, npu professor.NewProfessorWithUser) (ProfessorRecord, error) {
	var rec ProfessorRecord
	err := svc.tx.Tx(ctx, func(ctx context.Context) error {
		p, err := svc.resolvePerson(ctx, npu.PersonID, npu.Person)
		if err != nil {
			return err
		}
		rec.Person = p

		prof := npu.Build(p.ID)
		if prof.ID == "" {
			prefix := professorPrefix + fmt.Sprintf("%02d", core.NowFunc().Year()%100)
			if prof.ID, err = svc.uniqueCode(ctx, prefix, svc.professorExists); err != nil {
				return err
			}
		}
		if rec.Professor, err = svc.professors.Create(ctx, prof); err != nil {
			return err
		}

		rec.User, err = svc.createUser(ctx, npu.NewUser(p.ID))
		return err
	})
	return rec, err
}

// resolvePerson loads the person personID or creates np.
func (svc *Service) resolvePerson(ctx context.Context, personID *int64, np *person.NewPerson) (person.Person, error) {
	if personID != nil {
		p, err := svc.persons.Get(ctx, *personID)
		if core.IsNotFound(err) {
			return p, core.NewValidationError(core.ErrInvalidInput, core.FieldError{Field: "pessoaId", Error: ErrPersonNotFound.Error()})
		}
		return p, err
	}
	if np == nil {
		return person.Person{}, core.NewValidationError(core.ErrInvalidInput, person.CheckPersonRef(nil, nil)...)
	}
	p, err := svc.persons.Create(ctx, np.Build())
	return p, core.PrefixFields(err, personFieldsPath)
}

func (svc *Service) createUser(ctx context.Context, nu *user.NewUser) (*user.User, error) {
	if nu == nil {
		return nil, nil
	}
	usr, err := svc.users.Create(ctx, *nu)
	if err != nil {
		return nil, err
	}
	return &usr, nil
}

func (svc *Service) studentExists(ctx context.Context, code string) (bool, error) {
	_, err := svc.students.Get(ctx, code)
	return exists(err)
}

func (svc *Service) professorExists(ctx context.Context, code string) (bool, error) {
	_, err := svc.professors.Get(ctx, code)
	return exists(err)
}

func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case core.IsNotFound(err):
		return false, nil
	}
	return false, err
}

// uniqueCode generates registration codes until one is not taken.
func (svc *Service) uniqueCode(ctx context.Context, prefix string, taken func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := svc.newCode(prefix)
		ok, err := taken(ctx, code)
		if err != nil {
			return "", err
		}
		if !ok {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

// randomCode returns prefix followed by random upper-case hex digits, RegCodeLen characters in all.
func randomCode(prefix string) string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + hex[:core.RegCodeLen-len(prefix)]
}
