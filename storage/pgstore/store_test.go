package pgstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
)

func newMock(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return New(mockPool), mockPool
}

func TestCreateWaitlistEntry(t *testing.T) {
	t.Run("Should return the stored row", func(t *testing.T) {
		s, mockPool := newMock(t)
		now := time.Now().UTC()
		company := "Doe Builders"
		var noText *string
		rows := mockPool.NewRows(waitlistColumns).
			AddRow(int64(1), "Jane", "jane@example.com", true, noText, &company, noText, now)
		mockPool.ExpectQuery("INSERT INTO waitlist_entries \\(name,email,accepts_updates,phone,company,message\\) VALUES").
			WithArgs("Jane", "jane@example.com", true, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(rows)

		created, err := s.CreateWaitlistEntry(context.Background(), models.WaitlistEntry{
			Name:           "Jane",
			Email:          "jane@example.com",
			AcceptsUpdates: true,
			Company:        &company,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, now, created.CreatedAt)
		require.NotNil(t, created.Company)
		assert.Equal(t, "Doe Builders", *created.Company)
		assert.Nil(t, created.Phone)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should translate unique violations", func(t *testing.T) {
		s, mockPool := newMock(t)
		mockPool.ExpectQuery("INSERT INTO waitlist_entries").
			WithArgs(anyArgs(6)...).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_waitlist_entries_email"})

		_, err := s.CreateWaitlistEntry(context.Background(), models.WaitlistEntry{Name: "Jane", Email: "jane@example.com"})
		assert.ErrorIs(t, err, storage.ErrDuplicate)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should pass other driver errors through", func(t *testing.T) {
		s, mockPool := newMock(t)
		boom := errors.New("connection reset")
		mockPool.ExpectQuery("INSERT INTO waitlist_entries").
			WithArgs(anyArgs(6)...).
			WillReturnError(boom)

		_, err := s.CreateWaitlistEntry(context.Background(), models.WaitlistEntry{Name: "Jane", Email: "jane@example.com"})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, storage.ErrDuplicate)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestGetWaitlistEntryLowercasesEmail(t *testing.T) {
	s, mockPool := newMock(t)
	mockPool.ExpectQuery("SELECT (.+) FROM waitlist_entries WHERE email = \\$1").
		WithArgs("jane@example.com").
		WillReturnRows(mockPool.NewRows(waitlistColumns))

	entry, err := s.GetWaitlistEntry(context.Background(), "Jane@Example.com")
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetProject(t *testing.T) {
	t.Run("Should scan a project", func(t *testing.T) {
		s, mockPool := newMock(t)
		client := "Acme Corp"
		var noDate *string
		now := time.Now().UTC()
		rows := mockPool.NewRows(projectColumns).
			AddRow(int64(4), "Office Tower", "Twelve floors", "Commercial", "Austin, TX", "/img/tower.jpg", noDate, &client, true, now)
		mockPool.ExpectQuery("SELECT (.+) FROM projects WHERE id = \\$1").
			WithArgs(int64(4)).
			WillReturnRows(rows)

		project, err := s.GetProject(context.Background(), 4)
		require.NoError(t, err)
		require.NotNil(t, project)
		assert.Equal(t, "Office Tower", project.Title)
		assert.Equal(t, "/img/tower.jpg", project.ImageURL)
		assert.True(t, project.Featured)
		require.NotNil(t, project.ClientName)
		assert.Equal(t, "Acme Corp", *project.ClientName)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should return nil when missing", func(t *testing.T) {
		s, mockPool := newMock(t)
		mockPool.ExpectQuery("SELECT (.+) FROM projects WHERE id = \\$1").
			WithArgs(int64(99)).
			WillReturnRows(mockPool.NewRows(projectColumns))

		project, err := s.GetProject(context.Background(), 99)
		require.NoError(t, err)
		assert.Nil(t, project)
	})
}

func TestListServicesOrdering(t *testing.T) {
	s, mockPool := newMock(t)
	now := time.Now().UTC()
	rows := mockPool.NewRows(serviceColumns).
		AddRow(int64(2), "Design-Build", "One contract", "ruler", false, now).
		AddRow(int64(1), "Renovation", "Full remodels", "hammer", true, now)
	mockPool.ExpectQuery("SELECT (.+) FROM services ORDER BY title ASC, id ASC").
		WillReturnRows(rows)

	services, err := s.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Design-Build", services[0].Title)
	assert.Equal(t, "hammer", services[1].IconName)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestListFeaturedProjectsEmpty(t *testing.T) {
	s, mockPool := newMock(t)
	mockPool.ExpectQuery("SELECT (.+) FROM projects WHERE featured = \\$1 ORDER BY created_at DESC, id DESC").
		WithArgs(true).
		WillReturnRows(mockPool.NewRows(projectColumns))

	projects, err := s.ListFeaturedProjects(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestUpsertCompanyInfo(t *testing.T) {
	s, mockPool := newMock(t)
	now := time.Now().UTC()
	mockPool.ExpectQuery("INSERT INTO company_info (.+) ON CONFLICT \\(section\\) DO UPDATE SET content = EXCLUDED.content").
		WithArgs("mission", "<p>Build better.</p>").
		WillReturnRows(mockPool.NewRows(companyInfoColumns).AddRow(int64(3), "mission", "<p>Build better.</p>", now))

	info, err := s.UpsertCompanyInfo(context.Background(), models.CompanyInfo{Section: "mission", Content: "<p>Build better.</p>"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateContactMessageStatus(t *testing.T) {
	t.Run("Should return the updated row", func(t *testing.T) {
		s, mockPool := newMock(t)
		var noPhone *string
		now := time.Now().UTC()
		mockPool.ExpectQuery("UPDATE contact_messages SET status = \\$1 WHERE id = \\$2 RETURNING").
			WithArgs(models.ContactStatusReplied, int64(5)).
			WillReturnRows(mockPool.NewRows(contactColumns).
				AddRow(int64(5), "Jane", "jane@example.com", noPhone, "Quote", "Please send a quote.", models.ContactStatusReplied, now))

		msg, err := s.UpdateContactMessageStatus(context.Background(), 5, models.ContactStatusReplied)
		require.NoError(t, err)
		assert.Equal(t, models.ContactStatusReplied, msg.Status)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Should report unknown ids", func(t *testing.T) {
		s, mockPool := newMock(t)
		mockPool.ExpectQuery("UPDATE contact_messages").
			WithArgs(models.ContactStatusRead, int64(42)).
			WillReturnRows(mockPool.NewRows(contactColumns))

		_, err := s.UpdateContactMessageStatus(context.Background(), 42, models.ContactStatusRead)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestRecordPageVisit(t *testing.T) {
	s, mockPool := newMock(t)
	now := time.Now().UTC()
	mockPool.ExpectQuery("INSERT INTO page_visits \\(page\\) VALUES \\(\\$1\\) RETURNING id, page, \"timestamp\"").
		WithArgs("home").
		WillReturnRows(mockPool.NewRows([]string{"id", "page", "timestamp"}).AddRow(int64(1), "home", now))

	visit, err := s.RecordPageVisit(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, "home", visit.Page)
	assert.Equal(t, now, visit.Timestamp)
}

func TestPingWithoutPool(t *testing.T) {
	s, mockPool := newMock(t)
	mockPool.ExpectExec("SELECT 1").WillReturnResult(pgxmock.NewResult("SELECT", 1))

	require.NoError(t, s.Ping(context.Background()))
	assert.Equal(t, "postgres", s.Name())
	assert.NoError(t, s.Close())
}
