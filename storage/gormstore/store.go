// Package gormstore implements storage.Storage on gorm. MySQL is the primary
// production dialect; Postgres and SQLite share the same models and repos.
package gormstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
	_ "modernc.org/sqlite"

	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
)

// Supported dialects.
const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type Config struct {
	Dialect string
	DSN     string
	// ReplicaDSN, when set, receives read queries through dbresolver.
	ReplicaDSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
	AutoMigrate     bool
}

type Store struct {
	db      *gorm.DB
	dialect string

	userRepo           *UserRepo
	waitlistRepo       *WaitlistRepo
	analyticsRepo      *AnalyticsRepo
	projectRepo        *ProjectRepo
	serviceRepo        *ServiceRepo
	companyInfoRepo    *CompanyInfoRepo
	contactMessageRepo *ContactMessageRepo
}

var _ storage.Storage = (*Store)(nil)

// New wraps an already opened gorm handle. Every repository shares it.
func New(db *gorm.DB) *Store {
	return &Store{
		db:                 db,
		dialect:            db.Dialector.Name(),
		userRepo:           NewUserRepo(db),
		waitlistRepo:       NewWaitlistRepo(db),
		analyticsRepo:      NewAnalyticsRepo(db),
		projectRepo:        NewProjectRepo(db),
		serviceRepo:        NewServiceRepo(db),
		companyInfoRepo:    NewCompanyInfoRepo(db),
		contactMessageRepo: NewContactMessageRepo(db),
	}
}

// Open connects, configures the pool, pings and optionally migrates.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dialector, err := dialectorFor(cfg.Dialect, cfg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(cfg.SlowThreshold),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Dialect, err)
	}

	if cfg.ReplicaDSN != "" {
		replica, err := dialectorFor(cfg.Dialect, cfg.ReplicaDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{replica},
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
		log.Info().Str("dialect", cfg.Dialect).Msg("read replica registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	if cfg.Dialect == DialectSQLite {
		// modernc serialises writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	}

	s := New(db)
	if err := s.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	log.Info().Str("dialect", cfg.Dialect).Bool("autoMigrate", cfg.AutoMigrate).Msg("gorm store ready")
	return s, nil
}

func dialectorFor(dialect, dsn string) (gorm.Dialector, error) {
	switch dialect {
	case DialectMySQL:
		return mysql.Open(dsn), nil
	case DialectPostgres:
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	case DialectSQLite:
		conn, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
		}
		return sqlite.Dialector{DriverName: "sqlite", DSN: dsn, Conn: conn}, nil
	default:
		return nil, fmt.Errorf("unsupported gorm dialect %q", dialect)
	}
}

// newLogger routes gorm's warnings through zerolog. Record-not-found is
// expected on every lookup miss and is not logged.
func newLogger(slow time.Duration) logger.Interface {
	if slow <= 0 {
		slow = 10 * time.Second
	}
	l := log.With().Str("component", "gorm").Logger()
	return logger.New(&l, logger.Config{
		SlowThreshold:             slow,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func (s *Store) Name() string { return "gorm/" + s.dialect }

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", s.dialect, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Users

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	return user, wrap("get user", err)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	return user, wrap("get user by username", err)
}

func (s *Store) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	user := models.User{Username: in.Username, PasswordHash: in.PasswordHash}
	if err := s.userRepo.Add(ctx, &user); err != nil {
		return nil, wrap(fmt.Sprintf("create user %q", in.Username), err)
	}
	return &user, nil
}

// Waitlist

func (s *Store) CreateWaitlistEntry(ctx context.Context, entry models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := s.waitlistRepo.Add(ctx, &entry); err != nil {
		return nil, wrap(fmt.Sprintf("create waitlist entry %q", entry.Email), err)
	}
	return &entry, nil
}

func (s *Store) GetWaitlistEntry(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	entry, err := s.waitlistRepo.FindByEmail(ctx, email)
	return entry, wrap("get waitlist entry", err)
}

func (s *Store) ListWaitlistEntries(ctx context.Context) ([]models.WaitlistEntry, error) {
	entries, err := s.waitlistRepo.FindAll(ctx)
	return entries, wrap("list waitlist entries", err)
}

// Analytics

func (s *Store) RecordPageVisit(ctx context.Context, page string) (*models.PageVisit, error) {
	visit := models.PageVisit{Page: page}
	if err := s.analyticsRepo.AddPageVisit(ctx, &visit); err != nil {
		return nil, wrap("record page visit", err)
	}
	return &visit, nil
}

func (s *Store) RecordFormSubmission(ctx context.Context, formType string) (*models.FormSubmission, error) {
	submission := models.FormSubmission{FormType: formType}
	if err := s.analyticsRepo.AddFormSubmission(ctx, &submission); err != nil {
		return nil, wrap("record form submission", err)
	}
	return &submission, nil
}

func (s *Store) ListPageVisits(ctx context.Context) ([]models.PageVisit, error) {
	visits, err := s.analyticsRepo.PageVisits(ctx)
	return visits, wrap("list page visits", err)
}

func (s *Store) ListFormSubmissions(ctx context.Context) ([]models.FormSubmission, error) {
	submissions, err := s.analyticsRepo.FormSubmissions(ctx)
	return submissions, wrap("list form submissions", err)
}

// Projects

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projectRepo.FindAll(ctx)
	return projects, wrap("list projects", err)
}

func (s *Store) ListFeaturedProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projectRepo.FindFeatured(ctx)
	return projects, wrap("list featured projects", err)
}

func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	return project, wrap("get project", err)
}

func (s *Store) CreateProject(ctx context.Context, project models.Project) (*models.Project, error) {
	if err := s.projectRepo.Add(ctx, &project); err != nil {
		return nil, wrap("create project", err)
	}
	return &project, nil
}

// Services

func (s *Store) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.serviceRepo.FindAll(ctx)
	return services, wrap("list services", err)
}

func (s *Store) ListFeaturedServices(ctx context.Context) ([]models.Service, error) {
	services, err := s.serviceRepo.FindFeatured(ctx)
	return services, wrap("list featured services", err)
}

func (s *Store) GetService(ctx context.Context, id int64) (*models.Service, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	return service, wrap("get service", err)
}

func (s *Store) CreateService(ctx context.Context, service models.Service) (*models.Service, error) {
	if err := s.serviceRepo.Add(ctx, &service); err != nil {
		return nil, wrap("create service", err)
	}
	return &service, nil
}

// Company info

func (s *Store) GetCompanyInfo(ctx context.Context, section string) (*models.CompanyInfo, error) {
	info, err := s.companyInfoRepo.FindBySection(ctx, section)
	return info, wrap("get company info", err)
}

func (s *Store) ListCompanyInfo(ctx context.Context) ([]models.CompanyInfo, error) {
	info, err := s.companyInfoRepo.FindAll(ctx)
	return info, wrap("list company info", err)
}

// UpsertCompanyInfo re-reads the row afterwards because MySQL does not
// report the existing primary key on the update branch of an upsert.
func (s *Store) UpsertCompanyInfo(ctx context.Context, info models.CompanyInfo) (*models.CompanyInfo, error) {
	info.ID = 0
	if err := s.companyInfoRepo.Upsert(ctx, &info); err != nil {
		return nil, wrap(fmt.Sprintf("upsert company info %q", info.Section), err)
	}
	saved, err := s.companyInfoRepo.FindBySection(ctx, info.Section)
	if err != nil {
		return nil, wrap("reload company info", err)
	}
	if saved == nil {
		return nil, fmt.Errorf("reload company info %q: %w", info.Section, storage.ErrNotFound)
	}
	return saved, nil
}

// Contact messages

func (s *Store) CreateContactMessage(ctx context.Context, message models.ContactMessage) (*models.ContactMessage, error) {
	if err := s.contactMessageRepo.Add(ctx, &message); err != nil {
		return nil, wrap("create contact message", err)
	}
	return &message, nil
}

func (s *Store) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	messages, err := s.contactMessageRepo.FindAll(ctx)
	return messages, wrap("list contact messages", err)
}

func (s *Store) UpdateContactMessageStatus(ctx context.Context, id int64, status string) (*models.ContactMessage, error) {
	if err := s.contactMessageRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, wrap("update contact message status", err)
	}
	// RowsAffected is zero on MySQL when the status is unchanged, so the
	// existence check reads the row instead.
	message, err := s.contactMessageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrap("update contact message status", err)
	}
	if message == nil {
		return nil, fmt.Errorf("update contact message %d: %w", id, storage.ErrNotFound)
	}
	return message, nil
}
