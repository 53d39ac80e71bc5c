package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/evaluation"
)

type evaluationApi struct {
	*resource[int64, evaluation.Evaluation]
	svc          *evaluation.Service
	gradeColumns map[string]string
}

func registerEvaluationAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	svc := deps.Services.Evaluations
	api := evaluationApi{
		resource: newResource[int64, evaluation.Evaluation](
			svc, deps.Validate, parseInt64, evaluation.Schema.Search,
			intFilter("turmaId", "turma_id"),
			stringFilter("tipo", "tipo"),
		),
		svc:          svc,
		gradeColumns: core.Columns(evaluation.Grade{}),
	}

	teachers := rolesMiddleware(teacherRoles...)
	eg := g.Group("/avaliacoes", jwt)
	api.register(
		eg,
		createHandler[int64, evaluation.Evaluation, evaluation.NewEvaluation](api.resource),
		updateHandler[int64, evaluation.Evaluation, evaluation.UpdateEvaluation](api.resource),
		teachers,
	)

	gg := eg.Group("/:id/notas", api.load)
	gg.GET("", api.grades)
	gg.POST("", api.launch, teachers)
	gg.DELETE("/:gradeId", api.deleteGrade, teachers)

	cg := g.Group("/turmas/:id/avaliacoes", jwt)
	cg.GET("/validacao-pesos", api.checkWeights)
	cg.GET("/medias", api.averages)
	cg.POST("/medias/fechar", api.closeAverages, teachers)
}

func (api *evaluationApi) grades(ctx echo.Context) error {
	_, id, err := api.object(ctx)
	if err != nil {
		return err
	}
	q, err := bindListQuery(ctx, api.gradeColumns)
	if err != nil {
		return err
	}
	page, err := api.svc.Grades(ctx.Request().Context(), id, q.Page, q.Ordering...)
	if err != nil {
		return errors.Wrap(err, "listing grades")
	}
	return ctx.JSON(http.StatusOK, page)
}

func (api *evaluationApi) launch(ctx echo.Context) error {
	_, id, err := api.object(ctx)
	if err != nil {
		return err
	}
	var data evaluation.LaunchGrades
	if err := bindValid(ctx, &data, api.validate); err != nil {
		return err
	}
	grades, err := api.svc.Launch(ctx.Request().Context(), id, data)
	if err != nil {
		return errors.Wrap(err, "launching grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *evaluationApi) deleteGrade(ctx echo.Context) error {
	_, id, err := api.object(ctx)
	if err != nil {
		return err
	}
	gradeID, err := pathID(ctx, "gradeId")
	if err != nil {
		return err
	}
	if err := api.svc.DeleteGrade(ctx.Request().Context(), id, gradeID); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *evaluationApi) checkWeights(ctx echo.Context) error {
	classID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	wc, err := api.svc.CheckWeights(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "checking weights")
	}
	return ctx.JSON(http.StatusOK, wc)
}

func (api *evaluationApi) averages(ctx echo.Context) error {
	classID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	avgs, err := api.svc.Averages(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "computing averages")
	}
	return ctx.JSON(http.StatusOK, avgs)
}

func (api *evaluationApi) closeAverages(ctx echo.Context) error {
	classID, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	avgs, err := api.svc.CloseAverages(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "closing averages")
	}
	return ctx.JSON(http.StatusOK, avgs)
}
