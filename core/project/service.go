package project

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core"
)

var (
	// errors
	ErrNotFound   = errors.New("project not found")
	ErrNameExists = errors.New("a project with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excludedProjects ...Project) error
		CreateProject(ctx context.Context, prj Project) (Project, error)
		QueryAllProjects(ctx context.Context) ([]Project, error)
		GetProjectByID(ctx context.Context, id string) (Project, error)
		UpdateProject(ctx context.Context, prj Project, isActive *bool) (Project, error)
		DeleteProjectsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(name string, exclProjects ...Project) error
		Create(ctx context.Context, np NewProject) (Project, error)
		QueryAll(ctx context.Context) ([]Project, error)
		GetByID(ctx context.Context, id string) (Project, error)
		Update(ctx context.Context, id string, up UpdateProject) (Project, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(name string, exclProjects ...Project) error {
	if err := svc.repo.CheckNameUniqueness(context.Background(), name, exclProjects...); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, np NewProject) (Project, error) {
	now := time.Now().UTC()
	prj := Project{
		ID:        uuid.New().String(),
		Name:      np.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if np.Description != "" {
		prj.Description = null.StringFrom(np.Description)
	}
	return svc.repo.CreateProject(ctx, prj)
}

func (svc *service) QueryAll(ctx context.Context) ([]Project, error) {
	return svc.repo.QueryAllProjects(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Project, error) {
	return svc.repo.GetProjectByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, up UpdateProject) (Project, error) {
	prj := Project{
		ID:        id,
		Name:      up.Name,
		UpdatedAt: time.Now().UTC(),
	}
	if up.Description != "" {
		prj.Description = null.StringFrom(up.Description)
	}
	return svc.repo.UpdateProject(ctx, prj, up.IsActive)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteProjectsByID(ctx, ids...)
}
