package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/CoderPush/pulse-sub001/core/project"
)

type projectRepository struct {
	db *projectTable
}

var _ project.Repository = (*projectRepository)(nil) // interface compliance check

func NewProjectRepository(db *DB) project.Repository {
	return &projectRepository{db: db.project}
}

func (repo *projectRepository) query() []project.Project {
	projects := make([]project.Project, 0, len(repo.db.table))
	for _, prj := range repo.db.table {
		projects = append(projects, *prj)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects
}

func (repo *projectRepository) CheckNameUniqueness(ctx context.Context, name string, excludedProjects ...project.Project) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := make(map[string]struct{}, len(excludedProjects))
	for _, prj := range excludedProjects {
		excluded[prj.ID] = struct{}{}
	}
	for _, prj := range repo.query() {
		if _, ok := excluded[prj.ID]; ok {
			continue
		}
		if strings.EqualFold(prj.Name, name) {
			return project.ErrNameExists
		}
	}
	return nil
}

func (repo *projectRepository) CreateProject(ctx context.Context, prj project.Project) (project.Project, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if prj.ID == "" {
		prj.ID = uuid.New().String()
	}
	repo.db.table[prj.ID] = &prj
	return prj, nil
}

func (repo *projectRepository) QueryAllProjects(ctx context.Context) ([]project.Project, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *projectRepository) GetProjectByID(ctx context.Context, id string) (project.Project, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prj, ok := repo.db.table[id]; ok {
		return *prj, nil
	}
	return project.Project{}, project.ErrNotFound
}

func (repo *projectRepository) UpdateProject(ctx context.Context, prj project.Project, isActive *bool) (project.Project, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[prj.ID]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	if prj.Name != "" {
		orig.Name = prj.Name
	}
	if prj.Description.Valid {
		orig.Description = prj.Description
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = prj.UpdatedAt

	repo.db.table[prj.ID] = orig
	return *orig, nil
}

func (repo *projectRepository) DeleteProjectsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
