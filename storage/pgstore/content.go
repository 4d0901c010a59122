package pgstore

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rpupo63/buildsite-backend/models"
)

var (
	projectColumns = []string{
		"id", "title", "description", "category", "location", "image_url",
		"completion_date", "client_name", "featured", "created_at",
	}
	serviceColumns     = []string{"id", "title", "description", "icon_name", "featured", "created_at"}
	companyInfoColumns = []string{"id", "section", "content", "updated_at"}
)

// Projects

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := s.selectAll(ctx, &projects, psql.Select(projectColumns...).
		From("projects").
		OrderBy("created_at DESC", "id DESC"))
	return nonNil(projects), wrap("list projects", err)
}

func (s *Store) ListFeaturedProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := s.selectAll(ctx, &projects, psql.Select(projectColumns...).
		From("projects").
		Where(squirrel.Eq{"featured": true}).
		OrderBy("created_at DESC", "id DESC"))
	return nonNil(projects), wrap("list featured projects", err)
}

func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	query, args, err := psql.Select(projectColumns...).From("projects").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var project models.Project
	if err := pgxscan.Get(ctx, s.db, &project, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrap("get project", err)
	}
	return &project, nil
}

func (s *Store) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	query, args, err := psql.Insert("projects").
		Columns("title", "description", "category", "location", "image_url", "completion_date", "client_name", "featured").
		Values(p.Title, p.Description, p.Category, p.Location, p.ImageURL, p.CompletionDate, p.ClientName, p.Featured).
		Suffix(returning(projectColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}
	var project models.Project
	if err := pgxscan.Get(ctx, s.db, &project, query, args...); err != nil {
		return nil, wrap("create project", err)
	}
	return &project, nil
}

// Services

func (s *Store) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := s.selectAll(ctx, &services, psql.Select(serviceColumns...).
		From("services").
		OrderBy("title ASC", "id ASC"))
	return nonNil(services), wrap("list services", err)
}

func (s *Store) ListFeaturedServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := s.selectAll(ctx, &services, psql.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"featured": true}).
		OrderBy("title ASC", "id ASC"))
	return nonNil(services), wrap("list featured services", err)
}

func (s *Store) GetService(ctx context.Context, id int64) (*models.Service, error) {
	query, args, err := psql.Select(serviceColumns...).From("services").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var service models.Service
	if err := pgxscan.Get(ctx, s.db, &service, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrap("get service", err)
	}
	return &service, nil
}

func (s *Store) CreateService(ctx context.Context, sv models.Service) (*models.Service, error) {
	query, args, err := psql.Insert("services").
		Columns("title", "description", "icon_name", "featured").
		Values(sv.Title, sv.Description, sv.IconName, sv.Featured).
		Suffix(returning(serviceColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}
	var service models.Service
	if err := pgxscan.Get(ctx, s.db, &service, query, args...); err != nil {
		return nil, wrap("create service", err)
	}
	return &service, nil
}

// Company info

func (s *Store) GetCompanyInfo(ctx context.Context, section string) (*models.CompanyInfo, error) {
	query, args, err := psql.Select(companyInfoColumns...).
		From("company_info").
		Where(squirrel.Eq{"section": section}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var info models.CompanyInfo
	if err := pgxscan.Get(ctx, s.db, &info, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrap("get company info", err)
	}
	return &info, nil
}

func (s *Store) ListCompanyInfo(ctx context.Context) ([]models.CompanyInfo, error) {
	var info []models.CompanyInfo
	err := s.selectAll(ctx, &info, psql.Select(companyInfoColumns...).
		From("company_info").
		OrderBy("section ASC"))
	return nonNil(info), wrap("list company info", err)
}

// UpsertCompanyInfo keeps the existing row id when the section is present.
func (s *Store) UpsertCompanyInfo(ctx context.Context, in models.CompanyInfo) (*models.CompanyInfo, error) {
	query, args, err := psql.Insert("company_info").
		Columns("section", "content").
		Values(in.Section, in.Content).
		Suffix("ON CONFLICT (section) DO UPDATE SET content = EXCLUDED.content, updated_at = now() " +
			returning(companyInfoColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building upsert query: %w", err)
	}
	var info models.CompanyInfo
	if err := pgxscan.Get(ctx, s.db, &info, query, args...); err != nil {
		return nil, wrap(fmt.Sprintf("upsert company info %q", in.Section), err)
	}
	return &info, nil
}
