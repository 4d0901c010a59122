package pgstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
)

var (
	waitlistColumns = []string{"id", "name", "email", "accepts_updates", "phone", "company", "message", "created_at"}
	visitColumns    = []string{"id", "page", `"timestamp"`}
	formColumns     = []string{"id", "form_type", `"timestamp"`}
	contactColumns  = []string{"id", "name", "email", "phone", "subject", "message", "status", "created_at"}
)

// returning renders a RETURNING clause for the given columns.
func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// Waitlist

func (s *Store) CreateWaitlistEntry(ctx context.Context, entry models.WaitlistEntry) (*models.WaitlistEntry, error) {
	query, args, err := psql.Insert("waitlist_entries").
		Columns("name", "email", "accepts_updates", "phone", "company", "message").
		Values(entry.Name, entry.Email, entry.AcceptsUpdates, entry.Phone, entry.Company, entry.Message).
		Suffix(returning(waitlistColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}
	var created models.WaitlistEntry
	if err := pgxscan.Get(ctx, s.db, &created, query, args...); err != nil {
		return nil, wrap(fmt.Sprintf("create waitlist entry %q", entry.Email), err)
	}
	return &created, nil
}

func (s *Store) GetWaitlistEntry(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	query, args, err := psql.Select(waitlistColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"email": strings.ToLower(email)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select query: %w", err)
	}
	var entry models.WaitlistEntry
	if err := pgxscan.Get(ctx, s.db, &entry, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, wrap("get waitlist entry", err)
	}
	return &entry, nil
}

func (s *Store) ListWaitlistEntries(ctx context.Context) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := s.selectAll(ctx, &entries, psql.Select(waitlistColumns...).
		From("waitlist_entries").
		OrderBy("created_at ASC", "id ASC"))
	return nonNil(entries), wrap("list waitlist entries", err)
}

// Analytics

func (s *Store) RecordPageVisit(ctx context.Context, page string) (*models.PageVisit, error) {
	query, args, err := psql.Insert("page_visits").
		Columns("page").
		Values(page).
		Suffix(returning(visitColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}
	var visit models.PageVisit
	if err := pgxscan.Get(ctx, s.db, &visit, query, args...); err != nil {
		return nil, wrap("record page visit", err)
	}
	return &visit, nil
}

func (s *Store) RecordFormSubmission(ctx context.Context, formType string) (*models.FormSubmission, error) {
	query, args, err := psql.Insert("form_submissions").
		Columns("form_type").
		Values(formType).
		Suffix(returning(formColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}
	var submission models.FormSubmission
	if err := pgxscan.Get(ctx, s.db, &submission, query, args...); err != nil {
		return nil, wrap("record form submission", err)
	}
	return &submission, nil
}

func (s *Store) ListPageVisits(ctx context.Context) ([]models.PageVisit, error) {
	var visits []models.PageVisit
	err := s.selectAll(ctx, &visits, psql.Select(visitColumns...).
		From("page_visits").
		OrderBy(`"timestamp" DESC`, "id DESC"))
	return nonNil(visits), wrap("list page visits", err)
}

func (s *Store) ListFormSubmissions(ctx context.Context) ([]models.FormSubmission, error) {
	var submissions []models.FormSubmission
	err := s.selectAll(ctx, &submissions, psql.Select(formColumns...).
		From("form_submissions").
		OrderBy(`"timestamp" DESC`, "id DESC"))
	return nonNil(submissions), wrap("list form submissions", err)
}

// Contact messages

func (s *Store) CreateContactMessage(ctx context.Context, message models.ContactMessage) (*models.ContactMessage, error) {
	if message.Status == "" {
		message.Status = models.ContactStatusNew
	}
	query, args, err := psql.Insert("contact_messages").
		Columns("name", "email", "phone", "subject", "message", "status").
		Values(message.Name, message.Email, message.Phone, message.Subject, message.Message, message.Status).
		Suffix(returning(contactColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building insert query: %w", err)
	}
	var created models.ContactMessage
	if err := pgxscan.Get(ctx, s.db, &created, query, args...); err != nil {
		return nil, wrap("create contact message", err)
	}
	return &created, nil
}

func (s *Store) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := s.selectAll(ctx, &messages, psql.Select(contactColumns...).
		From("contact_messages").
		OrderBy("created_at DESC", "id DESC"))
	return nonNil(messages), wrap("list contact messages", err)
}

func (s *Store) UpdateContactMessageStatus(ctx context.Context, id int64, status string) (*models.ContactMessage, error) {
	query, args, err := psql.Update("contact_messages").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		Suffix(returning(contactColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building update query: %w", err)
	}
	var message models.ContactMessage
	if err := pgxscan.Get(ctx, s.db, &message, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("update contact message %d: %w", id, storage.ErrNotFound)
		}
		return nil, wrap("update contact message status", err)
	}
	return &message, nil
}

func (s *Store) selectAll(ctx context.Context, dst any, qb squirrel.SelectBuilder) error {
	query, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("building select query: %w", err)
	}
	return pgxscan.Select(ctx, s.db, dst, query, args...)
}
