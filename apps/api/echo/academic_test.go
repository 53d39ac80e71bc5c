package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
	"github.com/trezcool/academia/core/class"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/curriculum"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/evaluation"
	"github.com/trezcool/academia/core/lesson"
	"github.com/trezcool/academia/core/period"
	"github.com/trezcool/academia/core/subject"
	"github.com/trezcool/academia/core/user"
)

// post sends body to path and decodes the answer into v when it has the wanted code.
func (app testApp) post(t *testing.T, token, path, body string, wantCode int, v interface{}) {
	t.Helper()
	rec := app.do(http.MethodPost, path, token, body)
	require.Equal(t, wantCode, rec.Code, rec.Body.String())
	if v != nil {
		decode(t, rec, v)
	}
}

func (app testApp) get(t *testing.T, token, path string, v interface{}) {
	t.Helper()
	rec := app.do(http.MethodGet, path, token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, v)
}

// academicFixture is a course with one period, one subject, one class and one enrolled student.
type academicFixture struct {
	adminToken string
	profToken  string
	course     course.Course
	period     period.Period
	subject    subject.Subject
	student    enrollment.StudentRecord
	professor  enrollment.ProfessorRecord
	class      class.Class
	enrollment class.Enrollment
}

func newAcademicFixture(t *testing.T, app testApp) academicFixture {
	var fx academicFixture
	_, fx.adminToken = app.admin(t)

	var shift course.Shift
	var cur curriculum.Curriculum
	app.post(t, fx.adminToken, "/api/cursos", `{"nome": "Teologia", "grau": "Bacharelado"}`, http.StatusCreated, &fx.course)
	app.post(t, fx.adminToken, "/api/turnos", `{"nome": "Noturno"}`, http.StatusCreated, &shift)
	app.post(t, fx.adminToken, "/api/curriculos",
		fmt.Sprintf(`{"cursoId": %d, "turnoId": %d, "versao": "2024", "vigenteDe": "2024-01-01"}`, fx.course.ID, shift.ID),
		http.StatusCreated, &cur)
	app.post(t, fx.adminToken, "/api/periodos",
		fmt.Sprintf(`{"curriculoId": %d, "numero": 1, "nome": "Primeiro"}`, cur.ID), http.StatusCreated, &fx.period)
	app.post(t, fx.adminToken, "/api/disciplinas",
		fmt.Sprintf(`{"cursoId": %d, "codigo": "TEO101", "nome": "Introdução à Teologia", "creditos": 4, "cargaHoraria": 60}`, fx.course.ID),
		http.StatusCreated, &fx.subject)

	app.post(t, fx.adminToken, "/api/alunos",
		fmt.Sprintf(`{"pessoa": {"nomeCompleto": "Maria Clara"}, "cursoId": %d, "periodoId": %d, "anoIngresso": 2024}`, fx.course.ID, fx.period.ID),
		http.StatusCreated, &fx.student)
	app.post(t, fx.adminToken, "/api/professores",
		`{"pessoa": {"nomeCompleto": "João Paulo"}, "dataInicio": "2024-02-01", "createUser": true, "username": "joao", "password": "`+testPassword+`"}`,
		http.StatusCreated, &fx.professor)
	require.NotNil(t, fx.professor.User)
	fx.profToken = app.token(t, *fx.professor.User)

	app.post(t, fx.adminToken, "/api/turmas",
		fmt.Sprintf(`{"disciplinaId": %d, "professorId": %q, "semestre": "2024.1"}`, fx.subject.ID, fx.professor.ID),
		http.StatusCreated, &fx.class)
	app.post(t, fx.adminToken, fmt.Sprintf("/api/turmas/%d/inscricoes", fx.class.ID),
		fmt.Sprintf(`{"alunoId": %q}`, fx.student.RA), http.StatusCreated, &fx.enrollment)
	return fx
}

func Test_academicApi_records(t *testing.T) {
	app := setup(t)
	fx := newAcademicFixture(t, app)

	assert.Equal(t, "24", fx.student.RA[:2])
	assert.Len(t, fx.student.RA, 8)
	assert.Equal(t, "Maria Clara", fx.student.Person.FullName)
	assert.Nil(t, fx.student.User)
	assert.Equal(t, "P", fx.professor.ID[:1])
	assert.Equal(t, user.RoleProfessor, fx.professor.User.Role)

	// subjects are linked once per period
	linkPath := fmt.Sprintf("/api/periodos/%d/disciplinas", fx.period.ID)
	var link period.Link
	app.post(t, fx.adminToken, linkPath, fmt.Sprintf(`{"disciplinaId": %d, "ordem": 1, "obrigatoria": true}`, fx.subject.ID), http.StatusCreated, &link)
	assert.Equal(t, fx.period.ID, link.PeriodID)
	app.post(t, fx.adminToken, linkPath, fmt.Sprintf(`{"disciplinaId": %d}`, fx.subject.ID), http.StatusConflict, nil)
	app.post(t, fx.adminToken, linkPath, `{"disciplinaId": 999}`, http.StatusBadRequest, nil)

	var pwr period.WithRelations
	app.get(t, fx.adminToken, fmt.Sprintf("/api/periodos/%d", fx.period.ID), &pwr)
	assert.Equal(t, 1, pwr.TotalSubjects)
	assert.Equal(t, 1, pwr.TotalStudents)
	require.NotNil(t, pwr.Curriculum)
	assert.Equal(t, "2024", pwr.Curriculum.Version)
	require.Len(t, pwr.Subjects, 1)
	assert.Equal(t, "TEO101", pwr.Subjects[0].Subject.Code)

	var swr subject.WithRelations
	app.get(t, fx.adminToken, fmt.Sprintf("/api/disciplinas/%d", fx.subject.ID), &swr)
	require.NotNil(t, swr.Course)
	assert.Equal(t, "Teologia", swr.Course.Name)
	require.Len(t, swr.Periods, 1)
	assert.Equal(t, 1, swr.Periods[0].Number)

	var cwr class.WithRelations
	app.get(t, fx.adminToken, fmt.Sprintf("/api/turmas/%d", fx.class.ID), &cwr)
	assert.Equal(t, 1, cwr.TotalEnrolled)
	require.NotNil(t, cwr.Professor)
	assert.Equal(t, "João Paulo", cwr.Professor.FullName)
	require.Len(t, cwr.Enrollments, 1)
	require.NotNil(t, cwr.Enrollments[0].Student)
	assert.Equal(t, "Maria Clara", cwr.Enrollments[0].Student.FullName)

	rec := app.do(http.MethodPatch, linkPath+fmt.Sprintf("/%d", link.ID), fx.adminToken, `{"ordem": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.do(http.MethodDelete, fmt.Sprintf("/api/periodos/%d/disciplinas/999", fx.period.ID), fx.adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodDelete, linkPath+fmt.Sprintf("/%d", link.ID), fx.adminToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	app.run(t, []httpTest{
		{
			name: "duplicate enrollment", method: http.MethodPost, path: fmt.Sprintf("/api/turmas/%d/inscricoes", fx.class.ID),
			token: fx.adminToken, body: fmt.Sprintf(`{"alunoId": %q}`, fx.student.RA), wantCode: http.StatusConflict,
		},
		{
			name: "unknown class refs", method: http.MethodPost, path: "/api/turmas", token: fx.adminToken,
			body: `{"disciplinaId": 999, "professorId": "P2400000", "semestre": "2024.2"}`, wantCode: http.StatusBadRequest,
		},
		{
			name: "bad semester", method: http.MethodPost, path: "/api/turmas", token: fx.adminToken,
			body: fmt.Sprintf(`{"disciplinaId": %d, "professorId": %q, "semestre": "2024-1"}`, fx.subject.ID, fx.professor.ID), wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate course", method: http.MethodPost, path: "/api/cursos", token: fx.adminToken,
			body: `{"nome": "Teologia", "grau": "Licenciatura"}`, wantCode: http.StatusConflict,
		},
		{
			name: "professors cannot write courses", method: http.MethodPost, path: "/api/cursos", token: fx.profToken,
			body: `{"nome": "Filosofia", "grau": "Bacharelado"}`, wantCode: http.StatusForbidden,
		},
		{name: "professors read courses", path: "/api/cursos", token: fx.profToken, wantCode: http.StatusOK},
		{name: "unknown student", path: "/api/alunos/XX000000", token: fx.adminToken, wantCode: http.StatusNotFound},
		{name: "filter students", path: fmt.Sprintf("/api/alunos?periodoId=%d", fx.period.ID), token: fx.adminToken, wantCode: http.StatusOK},
		{name: "bad filter", path: "/api/alunos?periodoId=abc", token: fx.adminToken, wantCode: http.StatusBadRequest},
	})

	var page core.Page[course.Course]
	app.get(t, fx.adminToken, "/api/cursos?search=teo&ordering=-nome", &page)
	assert.Equal(t, 1, page.Pagination.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, fx.course.ID, page.Data[0].ID)

	rec = app.do(http.MethodPatch, fmt.Sprintf("/api/cursos/%d", fx.course.ID), fx.adminToken, `{"grau": "Licenciatura"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated course.Course
	decode(t, rec, &updated)
	assert.Equal(t, "Licenciatura", updated.Degree)
	assert.Equal(t, "Teologia", updated.Name)
}

func Test_academicApi_grades(t *testing.T) {
	app := setup(t)
	fx := newAcademicFixture(t, app)
	classPath := fmt.Sprintf("/api/turmas/%d", fx.class.ID)

	var exam, work evaluation.Evaluation
	app.post(t, fx.profToken, "/api/avaliacoes",
		fmt.Sprintf(`{"turmaId": %d, "data": "2024-03-10", "tipo": "EXAM", "codigo": "P1", "peso": 60}`, fx.class.ID), http.StatusCreated, &exam)

	var wc evaluation.WeightCheck
	app.get(t, fx.profToken, classPath+"/avaliacoes/validacao-pesos", &wc)
	assert.Equal(t, evaluation.NewWeightCheck(fx.class.ID, 60), wc)

	app.post(t, fx.profToken, "/api/avaliacoes",
		fmt.Sprintf(`{"turmaId": %d, "data": "2024-04-10", "tipo": "ASSIGNMENT", "codigo": "T1", "peso": 40}`, fx.class.ID), http.StatusCreated, &work)
	app.get(t, fx.profToken, classPath+"/avaliacoes/validacao-pesos", &wc)
	assert.True(t, wc.Valid)

	launch := func(evalID int64, score string) string {
		return fmt.Sprintf(`{"notas": [{"inscricaoId": %d, "nota": %s}]}`, fx.enrollment.ID, score)
	}
	app.post(t, fx.profToken, fmt.Sprintf("/api/avaliacoes/%d/notas", exam.ID), launch(exam.ID, "8"), http.StatusOK, nil)
	app.post(t, fx.profToken, fmt.Sprintf("/api/avaliacoes/%d/notas", work.ID), launch(work.ID, "5.5"), http.StatusOK, nil)
	app.post(t, fx.profToken, fmt.Sprintf("/api/avaliacoes/%d/notas", work.ID), launch(work.ID, "11"), http.StatusBadRequest, nil)
	app.post(t, fx.profToken, fmt.Sprintf("/api/avaliacoes/%d/notas", work.ID), `{"notas": [{"inscricaoId": 999, "nota": 5}]}`, http.StatusBadRequest, nil)

	var grades core.Page[evaluation.Grade]
	app.get(t, fx.profToken, fmt.Sprintf("/api/avaliacoes/%d/notas", work.ID), &grades)
	require.Len(t, grades.Data, 1)
	assert.Equal(t, 5.5, grades.Data[0].Score)

	var avgs []evaluation.Average
	app.get(t, fx.profToken, classPath+"/avaliacoes/medias", &avgs)
	require.Len(t, avgs, 1)
	require.NotNil(t, avgs[0].Average)
	assert.Equal(t, 7.0, *avgs[0].Average) // (8·60 + 5.5·40) / 100
	assert.Equal(t, 2, avgs[0].Graded)

	app.post(t, fx.profToken, classPath+"/avaliacoes/medias/fechar", "", http.StatusOK, &avgs)
	var enr class.Enrollment
	app.get(t, fx.profToken, fmt.Sprintf("%s/inscricoes/%d", classPath, fx.enrollment.ID), &enr)
	require.NotNil(t, enr.FinalGrade)
	assert.Equal(t, 7.0, *enr.FinalGrade)

	// deleting an evaluation drops its grades
	rec := app.do(http.MethodDelete, fmt.Sprintf("/api/avaliacoes/%d", exam.ID), fx.profToken, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	app.get(t, fx.profToken, classPath+"/avaliacoes/medias", &avgs)
	require.Len(t, avgs, 1)
	assert.Equal(t, 5.5, *avgs[0].Average)
	assert.Equal(t, 1, avgs[0].Total)
}

func Test_academicApi_attendance(t *testing.T) {
	app := setup(t)
	fx := newAcademicFixture(t, app)

	var l1, l2 lesson.Lesson
	app.post(t, fx.profToken, "/api/aulas",
		fmt.Sprintf(`{"turmaId": %d, "data": "2024-03-01", "conteudo": "Aula inaugural"}`, fx.class.ID), http.StatusCreated, &l1)
	app.post(t, fx.profToken, "/api/aulas",
		fmt.Sprintf(`{"turmaId": %d, "data": "2024-03-08", "conteudo": "Hermenêutica"}`, fx.class.ID), http.StatusCreated, &l2)

	sheet := func(present bool) string {
		return fmt.Sprintf(`{"registros": [{"inscricaoId": %d, "presente": %t}]}`, fx.enrollment.ID, present)
	}
	var recs []attendance.Attendance
	app.post(t, fx.profToken, fmt.Sprintf("/api/aulas/%d/frequencias", l1.ID), sheet(true), http.StatusOK, &recs)
	require.Len(t, recs, 1)
	// registering again replaces the row
	app.post(t, fx.profToken, fmt.Sprintf("/api/aulas/%d/frequencias", l1.ID), sheet(false), http.StatusOK, &recs)
	app.post(t, fx.profToken, fmt.Sprintf("/api/aulas/%d/frequencias", l2.ID), sheet(true), http.StatusOK, &recs)
	app.post(t, fx.profToken, fmt.Sprintf("/api/aulas/%d/frequencias", l2.ID),
		fmt.Sprintf(`{"registros": [{"inscricaoId": %d, "presente": true}, {"inscricaoId": %d, "presente": false}]}`, fx.enrollment.ID, fx.enrollment.ID),
		http.StatusBadRequest, nil)

	app.get(t, fx.profToken, fmt.Sprintf("/api/aulas/%d/frequencias", l1.ID), &recs)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].Present)

	rec := app.do(http.MethodGet, "/api/aulas/999/frequencias", fx.profToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var sums []attendance.Summary
	app.get(t, fx.profToken, fmt.Sprintf("/api/turmas/%d/frequencias/resumo", fx.class.ID), &sums)
	require.Len(t, sums, 1)
	assert.Equal(t, attendance.NewSummary(fx.enrollment.ID, fx.student.RA, 2, 1), sums[0])
	assert.Equal(t, 50.0, sums[0].Percentage)
}

func Test_academicApi_deleteReferenced(t *testing.T) {
	app := setup(t)
	fx := newAcademicFixture(t, app)
	ctx := context.Background()

	var l lesson.Lesson
	app.post(t, fx.profToken, "/api/aulas",
		fmt.Sprintf(`{"turmaId": %d, "data": "2024-03-01", "conteudo": "Aula inaugural"}`, fx.class.ID), http.StatusCreated, &l)
	app.post(t, fx.profToken, fmt.Sprintf("/api/aulas/%d/frequencias", l.ID),
		fmt.Sprintf(`{"registros": [{"inscricaoId": %d, "presente": true}]}`, fx.enrollment.ID), http.StatusOK, nil)

	app.run(t, []httpTest{
		{
			name: "person of a student", method: http.MethodDelete, path: fmt.Sprintf("/api/pessoas/%d", fx.student.Person.ID),
			token: fx.adminToken, wantCode: http.StatusConflict,
		},
		{
			name: "course in use", method: http.MethodDelete, path: fmt.Sprintf("/api/cursos/%d", fx.course.ID),
			token: fx.adminToken, wantCode: http.StatusConflict,
		},
		{
			name: "class cascades", method: http.MethodDelete, path: fmt.Sprintf("/api/turmas/%d", fx.class.ID),
			token: fx.adminToken, wantCode: http.StatusNoContent,
		},
	})

	_, err := app.store.Persons.Get(ctx, fx.student.Person.ID)
	assert.NoError(t, err)
	_, total, err := app.store.Enrollments.Query(ctx, core.Filter{}, core.All)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	_, total, _ = app.store.Lessons.Query(ctx, core.Filter{}, core.All)
	assert.Equal(t, 0, total)
	_, total, _ = app.store.Attendances.Query(ctx, core.Filter{}, core.All)
	assert.Equal(t, 0, total)
}
