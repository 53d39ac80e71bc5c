package class

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/professor"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/subject"
)

var (
	ErrClassNotFound     = errors.New("turma não encontrada")
	ErrSubjectNotFound   = errors.New("disciplina não encontrada")
	ErrProfessorNotFound = errors.New("professor não encontrado")
	ErrStudentNotFound   = errors.New("aluno não encontrado")
)

type Service struct {
	*core.Service[int64, Class]
	enrollments *core.Service[int64, Enrollment]
	subjects    subject.Repository
	professors  *professor.Service
	students    *student.Service
}

func NewService(
	repo Repository,
	enrollments EnrollmentRepository,
	subjects subject.Repository,
	professors *professor.Service,
	students *student.Service,
) *Service {
	return &Service{
		Service:     core.NewService[int64, Class](repo, core.DBOrdering{Field: "semestre", Ascending: false}),
		enrollments: core.NewService[int64, Enrollment](enrollments, core.DBOrdering{Field: "aluno_id", Ascending: true}),
		subjects:    subjects,
		professors:  professors,
		students:    students,
	}
}

// Enrollments is the enrolment service of the classes.
func (svc *Service) Enrollments() *core.Service[int64, Enrollment] { return svc.enrollments }

// Create checks that the subject and the professor exist before creating the class.
func (svc *Service) Create(ctx context.Context, c Class) (Class, error) {
	if err := svc.checkRefs(ctx, c); err != nil {
		return c, err
	}
	return svc.Service.Create(ctx, c)
}

func (svc *Service) Update(ctx context.Context, id int64, patch func(*Class)) (Class, error) {
	c, err := svc.Get(ctx, id)
	if err != nil {
		return c, err
	}
	patch(&c)
	if err := svc.checkRefs(ctx, c); err != nil {
		return c, err
	}
	return svc.Service.Update(ctx, id, patch)
}

func (svc *Service) checkRefs(ctx context.Context, c Class) error {
	var flds []core.FieldError
	if _, err := svc.subjects.Get(ctx, c.SubjectID); err != nil {
		if !core.IsNotFound(err) {
			return errors.Wrap(err, "getting subject")
		}
		flds = append(flds, core.FieldError{Field: "disciplinaId", Error: ErrSubjectNotFound.Error()})
	}
	if _, err := svc.professors.Get(ctx, c.ProfessorID); err != nil {
		if !core.IsNotFound(err) {
			return errors.Wrap(err, "getting professor")
		}
		flds = append(flds, core.FieldError{Field: "professorId", Error: ErrProfessorNotFound.Error()})
	}
	if len(flds) > 0 {
		return core.NewValidationError(core.ErrInvalidInput, flds...)
	}
	return nil
}

// WithRelations loads the subject, the professor and the enrolments of c.
func (svc *Service) WithRelations(ctx context.Context, c Class) (WithRelations, error) {
	wr := WithRelations{Class: c}
	if s, err := svc.subjects.Get(ctx, c.SubjectID); err == nil {
		sum := s.Summary()
		wr.Subject = &sum
	} else if !core.IsNotFound(err) {
		return wr, errors.Wrap(err, "getting subject")
	}
	if sum, err := svc.professors.Summary(ctx, c.ProfessorID); err == nil {
		wr.Professor = &sum
	} else if !core.IsNotFound(err) {
		return wr, err
	}

	page, err := svc.ListEnrollments(ctx, c.ID, core.All)
	if err != nil {
		return wr, err
	}
	wr.Enrollments = page.Data
	wr.TotalEnrolled = page.Pagination.Total
	return wr, nil
}

// Enroll enrolls a student in a class.
func (svc *Service) Enroll(ctx context.Context, ne NewEnrollment) (Enrollment, error) {
	var flds []core.FieldError
	if _, err := svc.Get(ctx, ne.ClassID); err != nil {
		if !core.IsNotFound(err) {
			return Enrollment{}, err
		}
		flds = append(flds, core.FieldError{Field: "turmaId", Error: ErrClassNotFound.Error()})
	}
	if _, err := svc.students.Get(ctx, ne.StudentID); err != nil {
		if !core.IsNotFound(err) {
			return Enrollment{}, err
		}
		flds = append(flds, core.FieldError{Field: "alunoId", Error: ErrStudentNotFound.Error()})
	}
	if len(flds) > 0 {
		return Enrollment{}, core.NewValidationError(core.ErrInvalidInput, flds...)
	}
	return svc.enrollments.Create(ctx, ne.Build())
}

// ListEnrollments lists the enrolments of a class along with their students.
func (svc *Service) ListEnrollments(ctx context.Context, classID int64, page core.PageRequest, ordering ...core.DBOrdering) (core.Page[EnrollmentWithStudent], error) {
	enrs, err := svc.enrollments.List(ctx, core.Filter{}.Where("turma_id", classID), page, ordering...)
	if err != nil {
		return core.Page[EnrollmentWithStudent]{}, err
	}
	ras := make([]string, len(enrs.Data))
	for i, e := range enrs.Data {
		ras[i] = e.StudentID
	}
	sums, err := svc.students.Summaries(ctx, ras...)
	if err != nil {
		return core.Page[EnrollmentWithStudent]{}, err
	}
	return core.MapPage(enrs, func(e Enrollment) EnrollmentWithStudent {
		ews := EnrollmentWithStudent{Enrollment: e}
		if sum, ok := sums[e.StudentID]; ok {
			ews.Student = &sum
		}
		return ews
	}), nil
}

// GetEnrollment returns the enrolment id of the class classID.
func (svc *Service) GetEnrollment(ctx context.Context, classID, id int64) (Enrollment, error) {
	e, err := svc.enrollments.Get(ctx, id)
	if err != nil {
		return e, err
	}
	if e.ClassID != classID {
		return Enrollment{}, core.ErrNotFound
	}
	return e, nil
}

func (svc *Service) UpdateEnrollment(ctx context.Context, classID, id int64, ue UpdateEnrollment) (Enrollment, error) {
	if _, err := svc.GetEnrollment(ctx, classID, id); err != nil {
		return Enrollment{}, err
	}
	return svc.enrollments.Update(ctx, id, ue.Apply)
}

func (svc *Service) Unenroll(ctx context.Context, classID, id int64) error {
	if _, err := svc.GetEnrollment(ctx, classID, id); err != nil {
		return err
	}
	return svc.enrollments.Delete(ctx, id)
}
