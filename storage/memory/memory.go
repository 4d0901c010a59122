// Package memory is the zero-dependency Storage used when no database is
// configured. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
)

// Store keeps one table per entity, keyed by an auto-incrementing id.
// A single RWMutex guards every table, so the waitlist and username
// uniqueness checks are atomic with the insert that follows them.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users           table[models.User]
	waitlist        table[models.WaitlistEntry]
	pageVisits      table[models.PageVisit]
	formSubmissions table[models.FormSubmission]
	projects        table[models.Project]
	services        table[models.Service]
	companyInfo     table[models.CompanyInfo]
	contactMessages table[models.ContactMessage]
}

var _ storage.Storage = (*Store)(nil)

type Option func(*Store)

// WithClock overrides time.Now, mostly for tests that assert ordering.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(opts ...Option) *Store {
	s := &Store{now: func() time.Time { return time.Now().UTC() }}
	s.waitlist.clone = cloneWaitlistEntry
	s.projects.clone = cloneProject
	s.contactMessages.clone = cloneContactMessage
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Name() string { return "memory" }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

// Users

func (s *Store) GetUser(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.get(id), nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.find(func(u models.User) bool { return u.Username == username }), nil
}

func (s *Store) CreateUser(_ context.Context, user models.NewUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users.find(func(u models.User) bool { return u.Username == user.Username }) != nil {
		return nil, fmt.Errorf("create user %q: %w", user.Username, storage.ErrDuplicate)
	}
	row := models.User{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    s.now(),
	}
	return s.users.insert(row, func(u *models.User, id int64) { u.ID = id }), nil
}

// Waitlist

func (s *Store) CreateWaitlistEntry(_ context.Context, entry models.WaitlistEntry) (*models.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waitlist.find(sameEmail(entry.Email)) != nil {
		return nil, fmt.Errorf("create waitlist entry %q: %w", entry.Email, storage.ErrDuplicate)
	}
	entry.CreatedAt = s.now()
	return s.waitlist.insert(entry, func(e *models.WaitlistEntry, id int64) { e.ID = id }), nil
}

func (s *Store) GetWaitlistEntry(_ context.Context, email string) (*models.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.waitlist.find(sameEmail(email)), nil
}

func (s *Store) ListWaitlistEntries(_ context.Context) ([]models.WaitlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.waitlist.list(nil, func(a, b models.WaitlistEntry) bool {
		return olderFirst(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
	}), nil
}

// Analytics

func (s *Store) RecordPageVisit(_ context.Context, page string) (*models.PageVisit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := models.PageVisit{Page: page, Timestamp: s.now()}
	return s.pageVisits.insert(row, func(v *models.PageVisit, id int64) { v.ID = id }), nil
}

func (s *Store) RecordFormSubmission(_ context.Context, formType string) (*models.FormSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := models.FormSubmission{FormType: formType, Timestamp: s.now()}
	return s.formSubmissions.insert(row, func(f *models.FormSubmission, id int64) { f.ID = id }), nil
}

func (s *Store) ListPageVisits(_ context.Context) ([]models.PageVisit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageVisits.list(nil, func(a, b models.PageVisit) bool {
		return olderFirst(b.Timestamp, b.ID, a.Timestamp, a.ID)
	}), nil
}

func (s *Store) ListFormSubmissions(_ context.Context) ([]models.FormSubmission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.formSubmissions.list(nil, func(a, b models.FormSubmission) bool {
		return olderFirst(b.Timestamp, b.ID, a.Timestamp, a.ID)
	}), nil
}

// Projects

func (s *Store) ListProjects(_ context.Context) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.list(nil, newestProjectFirst), nil
}

func (s *Store) ListFeaturedProjects(_ context.Context) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.list(func(p models.Project) bool { return p.Featured }, newestProjectFirst), nil
}

func (s *Store) GetProject(_ context.Context, id int64) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.get(id), nil
}

func (s *Store) CreateProject(_ context.Context, project models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	project.CreatedAt = s.now()
	return s.projects.insert(project, func(p *models.Project, id int64) { p.ID = id }), nil
}

// Services

func (s *Store) ListServices(_ context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.list(nil, serviceByTitle), nil
}

func (s *Store) ListFeaturedServices(_ context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.list(func(sv models.Service) bool { return sv.Featured }, serviceByTitle), nil
}

func (s *Store) GetService(_ context.Context, id int64) (*models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services.get(id), nil
}

func (s *Store) CreateService(_ context.Context, service models.Service) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	service.CreatedAt = s.now()
	return s.services.insert(service, func(sv *models.Service, id int64) { sv.ID = id }), nil
}

// Company info

func (s *Store) GetCompanyInfo(_ context.Context, section string) (*models.CompanyInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.companyInfo.find(func(c models.CompanyInfo) bool { return c.Section == section }), nil
}

func (s *Store) ListCompanyInfo(_ context.Context) ([]models.CompanyInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.companyInfo.list(nil, func(a, b models.CompanyInfo) bool { return a.Section < b.Section }), nil
}

func (s *Store) UpsertCompanyInfo(_ context.Context, info models.CompanyInfo) (*models.CompanyInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info.UpdatedAt = s.now()
	for id, row := range s.companyInfo.rows {
		if row.Section == info.Section {
			info.ID = id
			s.companyInfo.rows[id] = info
			return s.companyInfo.get(id), nil
		}
	}
	return s.companyInfo.insert(info, func(c *models.CompanyInfo, id int64) { c.ID = id }), nil
}

// Contact messages

func (s *Store) CreateContactMessage(_ context.Context, message models.ContactMessage) (*models.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if message.Status == "" {
		message.Status = models.ContactStatusNew
	}
	message.CreatedAt = s.now()
	return s.contactMessages.insert(message, func(m *models.ContactMessage, id int64) { m.ID = id }), nil
}

func (s *Store) ListContactMessages(_ context.Context) ([]models.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contactMessages.list(nil, func(a, b models.ContactMessage) bool {
		return olderFirst(b.CreatedAt, b.ID, a.CreatedAt, a.ID)
	}), nil
}

func (s *Store) UpdateContactMessageStatus(_ context.Context, id int64, status string) (*models.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.contactMessages.rows[id]
	if !ok {
		return nil, fmt.Errorf("update contact message %d: %w", id, storage.ErrNotFound)
	}
	row.Status = status
	s.contactMessages.rows[id] = row
	return s.contactMessages.get(id), nil
}

func sameEmail(email string) func(models.WaitlistEntry) bool {
	return func(e models.WaitlistEntry) bool { return strings.EqualFold(e.Email, email) }
}

func olderFirst(aAt time.Time, aID int64, bAt time.Time, bID int64) bool {
	if !aAt.Equal(bAt) {
		return aAt.Before(bAt)
	}
	return aID < bID
}

func newestProjectFirst(a, b models.Project) bool {
	return olderFirst(b.CreatedAt, b.ID, a.CreatedAt, a.ID)
}

func serviceByTitle(a, b models.Service) bool {
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}

// table is an id-keyed map with its own counter. Callers hold Store.mu.
// Rows with pointer fields set clone so callers never share them with
// the stored copy.
type table[T any] struct {
	nextID int64
	rows   map[int64]T
	clone  func(T) T
}

func (t *table[T]) copyOf(row T) T {
	if t.clone == nil {
		return row
	}
	return t.clone(row)
}

func (t *table[T]) insert(row T, setID func(*T, int64)) *T {
	if t.rows == nil {
		t.rows = make(map[int64]T)
	}
	t.nextID++
	setID(&row, t.nextID)
	t.rows[t.nextID] = t.copyOf(row)
	return t.get(t.nextID)
}

func (t *table[T]) get(id int64) *T {
	row, ok := t.rows[id]
	if !ok {
		return nil
	}
	row = t.copyOf(row)
	return &row
}

func (t *table[T]) find(match func(T) bool) *T {
	for id := int64(1); id <= t.nextID; id++ {
		row, ok := t.rows[id]
		if ok && match(row) {
			row = t.copyOf(row)
			return &row
		}
	}
	return nil
}

func (t *table[T]) list(keep func(T) bool, less func(a, b T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for id := int64(1); id <= t.nextID; id++ {
		row, ok := t.rows[id]
		if !ok || (keep != nil && !keep(row)) {
			continue
		}
		out = append(out, t.copyOf(row))
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneWaitlistEntry(e models.WaitlistEntry) models.WaitlistEntry {
	e.Phone = cloneString(e.Phone)
	e.Company = cloneString(e.Company)
	e.Message = cloneString(e.Message)
	return e
}

func cloneProject(p models.Project) models.Project {
	p.CompletionDate = cloneString(p.CompletionDate)
	p.ClientName = cloneString(p.ClientName)
	return p
}

func cloneContactMessage(m models.ContactMessage) models.ContactMessage {
	m.Phone = cloneString(m.Phone)
	return m
}
