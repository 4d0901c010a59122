// Package storage defines the persistence contract shared by every backend.
// Handlers depend only on Storage; the concrete backend is picked once at
// startup by Open.
package storage

import (
	"context"

	"github.com/rpupo63/buildsite-backend/errs"
	"github.com/rpupo63/buildsite-backend/models"
)

// Failure vocabulary. Backends wrap these with operation context, so callers
// must test with errors.Is.
var (
	ErrDuplicate = errs.ErrAlreadyExists
	ErrNotFound  = errs.ErrNotFound
)

// Storage is implemented by the memory, gorm and pgx backends. Lookups by key
// return (nil, nil) when nothing matches.
type Storage interface {
	Name() string
	Ping(ctx context.Context) error
	Close() error

	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user models.NewUser) (*models.User, error)

	CreateWaitlistEntry(ctx context.Context, entry models.WaitlistEntry) (*models.WaitlistEntry, error)
	GetWaitlistEntry(ctx context.Context, email string) (*models.WaitlistEntry, error)
	ListWaitlistEntries(ctx context.Context) ([]models.WaitlistEntry, error)

	RecordPageVisit(ctx context.Context, page string) (*models.PageVisit, error)
	RecordFormSubmission(ctx context.Context, formType string) (*models.FormSubmission, error)
	ListPageVisits(ctx context.Context) ([]models.PageVisit, error)
	ListFormSubmissions(ctx context.Context) ([]models.FormSubmission, error)

	ListProjects(ctx context.Context) ([]models.Project, error)
	ListFeaturedProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	CreateProject(ctx context.Context, project models.Project) (*models.Project, error)

	ListServices(ctx context.Context) ([]models.Service, error)
	ListFeaturedServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id int64) (*models.Service, error)
	CreateService(ctx context.Context, service models.Service) (*models.Service, error)

	GetCompanyInfo(ctx context.Context, section string) (*models.CompanyInfo, error)
	ListCompanyInfo(ctx context.Context) ([]models.CompanyInfo, error)
	UpsertCompanyInfo(ctx context.Context, info models.CompanyInfo) (*models.CompanyInfo, error)

	CreateContactMessage(ctx context.Context, message models.ContactMessage) (*models.ContactMessage, error)
	ListContactMessages(ctx context.Context) ([]models.ContactMessage, error)
	UpdateContactMessageStatus(ctx context.Context, id int64, status string) (*models.ContactMessage, error)
}
