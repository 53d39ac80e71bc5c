package integration

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/enrollment"
)

var errImportFailed = errors.New("falha ao importar o registro")

type Service struct {
	links       *core.Service[int64, Link]
	enrollments *enrollment.Service
	tx          core.Transactor
	logger      core.Logger
}

func NewService(repo Repository, enrollments *enrollment.Service, tx core.Transactor, logger core.Logger) *Service {
	return &Service{
		links:       core.NewService[int64, Link](repo, core.DBOrdering{Field: "id", Ascending: false}),
		enrollments: enrollments,
		tx:          tx,
		logger:      logger,
	}
}

// Links lists the imported records.
func (svc *Service) Links(ctx context.Context, filter core.Filter, page core.PageRequest, ordering ...core.DBOrdering) (core.Page[Link], error) {
	return svc.links.List(ctx, filter, page, ordering...)
}

// created is what an item import produced.
type created struct {
	code     string
	personID int64
	userID   *int64
}

// ImportStudents imports a validated batch of students from Directus.
// Each item is imported in its own transaction; a failed item never aborts the batch.
func (svc *Service) ImportStudents(ctx context.Context, req ImportStudentsRequest) Result {
	var res Result
	for i, it := range req.Items {
		item := it
		res.add(svc.importItem(ctx, i, KindStudent, string(item.DirectusID), func(ctx context.Context) (created, error) {
			rec, err := svc.enrollments.CreateStudent(ctx, item.NewStudentWithUser)
			if err != nil {
				return created{}, err
			}
			c := created{code: rec.RA, personID: rec.Person.ID}
			if rec.User != nil {
				c.userID = &rec.User.ID
			}
			return c, nil
		}))
	}
	return res
}

// ImportProfessors imports a validated batch of professors from Directus.
func (svc *Service) ImportProfessors(ctx context.Context, req ImportProfessorsRequest) Result {
	var res Result
	for i, it := range req.Items {
		item := it
		res.add(svc.importItem(ctx, i, KindProfessor, string(item.DirectusID), func(ctx context.Context) (created, error) {
			rec, err := svc.enrollments.CreateProfessor(ctx, item.NewProfessorWithUser)
			if err != nil {
				return created{}, err
			}
			c := created{code: rec.ID, personID: rec.Person.ID}
			if rec.User != nil {
				c.userID = &rec.User.ID
			}
			return c, nil
		}))
	}
	return res
}

// importItem skips an already imported record, otherwise creates it and remembers the link.
func (svc *Service) importItem(ctx context.Context, i int, kind, externalID string, create func(context.Context) (created, error)) ItemResult {
	ir := ItemResult{Index: i, DirectusID: externalID}

	filter := core.Filter{}.Where("origem", SourceDirectus).Where("tipo", kind).Where("external_id", externalID)
	link, err := core.FindOne(ctx, svc.links.Repo(), filter)
	switch {
	case err == nil:
		ir.Status = StatusSkipped
		ir.Code = link.Code
		return ir
	case !core.IsNotFound(err):
		return svc.failed(ir, err)
	}

	var c created
	err = svc.tx.Tx(ctx, func(ctx context.Context) error {
		var err error
		if c, err = create(ctx); err != nil {
			return err
		}
		_, err = svc.links.Create(ctx, Link{Source: SourceDirectus, Kind: kind, ExternalID: externalID, Code: c.code})
		return err
	})
	if err != nil {
		return svc.failed(ir, err)
	}
	ir.Status = StatusCreated
	ir.Code = c.code
	ir.PersonID = c.personID
	ir.UserID = c.userID
	return ir
}

func (svc *Service) failed(ir ItemResult, err error) ItemResult {
	ir.Status = StatusFailed
	if verr, ok := errors.Cause(err).(*core.ValidationError); ok {
		ir.Error = verr.Err.Error()
		ir.Errors = core.FieldErrors(core.PrefixFields(verr, itemPath(ir.Index)), nil)
		return ir
	}
	if svc.logger != nil {
		svc.logger.Error("import "+ir.DirectusID+": "+err.Error(), err)
	}
	ir.Error = errImportFailed.Error()
	return ir
}
