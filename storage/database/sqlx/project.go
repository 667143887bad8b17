package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/CoderPush/pulse-sub001/core/project"
)

type projectRow struct {
	ID          string      `db:"id"`
	Name        string      `db:"name"`
	Description null.String `db:"description"`
	IsActive    bool        `db:"is_active"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func (r projectRow) toProject() project.Project {
	return project.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type projectRepository struct {
	db *sqlx.DB
}

var _ project.Repository = (*projectRepository)(nil) // interface compliance check

func NewProjectRepository(db *sqlx.DB) project.Repository {
	return &projectRepository{db: db}
}

func (repo *projectRepository) CheckNameUniqueness(ctx context.Context, name string, excludedProjects ...project.Project) error {
	q := `SELECT COUNT(*) FROM project WHERE lower(name) = lower(?)`
	args := []interface{}{name}
	if len(excludedProjects) > 0 {
		ids := make([]string, 0, len(excludedProjects))
		for _, prj := range excludedProjects {
			ids = append(ids, prj.ID)
		}
		q += ` AND id NOT IN (?)`
		var err error
		if q, args, err = sqlx.In(q, name, ids); err != nil {
			return errors.Wrap(err, "building query")
		}
	}

	var count int
	if err := repo.db.GetContext(ctx, &count, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking name uniqueness")
	}
	if count > 0 {
		return project.ErrNameExists
	}
	return nil
}

func (repo *projectRepository) CreateProject(ctx context.Context, prj project.Project) (project.Project, error) {
	q := `INSERT INTO project (id, name, description, is_active, created_at, updated_at)
		VALUES (:id, :name, :description, :is_active, :created_at, :updated_at)`
	row := projectRow{
		ID:          prj.ID,
		Name:        prj.Name,
		Description: prj.Description,
		IsActive:    prj.IsActive,
		CreatedAt:   prj.CreatedAt,
		UpdatedAt:   prj.UpdatedAt,
	}
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return project.Project{}, project.ErrNameExists
		}
		return project.Project{}, errors.Wrap(err, "creating project")
	}
	return prj, nil
}

func (repo *projectRepository) QueryAllProjects(ctx context.Context) ([]project.Project, error) {
	var rows []projectRow
	q := `SELECT * FROM project ORDER BY name`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}
	projects := make([]project.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.toProject())
	}
	return projects, nil
}

func (repo *projectRepository) GetProjectByID(ctx context.Context, id string) (project.Project, error) {
	var row projectRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM project WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, errors.Wrap(err, "getting project")
	}
	return row.toProject(), nil
}

func (repo *projectRepository) UpdateProject(ctx context.Context, prj project.Project, isActive *bool) (project.Project, error) {
	sets := "name = :name, description = :description, updated_at = :updated_at"
	row := projectRow{
		ID:          prj.ID,
		Name:        prj.Name,
		Description: prj.Description,
		UpdatedAt:   prj.UpdatedAt,
	}
	if isActive != nil {
		row.IsActive = *isActive
		sets += ", is_active = :is_active"
	}

	q := `UPDATE project SET ` + sets + ` WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		if isUniqueViolation(err) {
			return project.Project{}, project.ErrNameExists
		}
		return project.Project{}, errors.Wrap(err, "updating project")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return project.Project{}, project.ErrNotFound
	}
	return repo.GetProjectByID(ctx, prj.ID)
}

func (repo *projectRepository) DeleteProjectsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM project WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting projects")
	}
	return nil
}
