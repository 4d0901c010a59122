// Package storagetest holds the behaviour every storage.Storage backend must
// share. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) storage.Storage

func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Waitlist", func(t *testing.T) { testWaitlist(t, newStore(t)) })
	t.Run("Analytics", func(t *testing.T) { testAnalytics(t, newStore(t)) })
	t.Run("Projects", func(t *testing.T) { testProjects(t, newStore(t)) })
	t.Run("Services", func(t *testing.T) { testServices(t, newStore(t)) })
	t.Run("CompanyInfo", func(t *testing.T) { testCompanyInfo(t, newStore(t)) })
	t.Run("ContactMessages", func(t *testing.T) { testContactMessages(t, newStore(t)) })
	t.Run("EmptyListsAreNotNil", func(t *testing.T) { testEmptyLists(t, newStore(t)) })
}

func testUsers(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	missing, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := s.CreateUser(ctx, models.NewUser{Username: "admin", PasswordHash: "$2a$10$hash"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "admin", created.Username)

	byID, err := s.GetUser(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "$2a$10$hash", byID.PasswordHash)

	byName, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)

	_, err = s.CreateUser(ctx, models.NewUser{Username: "admin", PasswordHash: "other"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	none, err := s.GetUser(ctx, created.ID+100)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func testWaitlist(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	entry := models.WaitlistEntry{
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		AcceptsUpdates: true,
		Company:        models.StringPtr("Doe Builders"),
	}
	created, err := s.CreateWaitlistEntry(ctx, entry)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetWaitlistEntry(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.True(t, got.AcceptsUpdates)
	require.NotNil(t, got.Company)
	assert.Equal(t, "Doe Builders", *got.Company)
	assert.Nil(t, got.Phone)

	_, err = s.CreateWaitlistEntry(ctx, models.WaitlistEntry{Name: "Jane Again", Email: "jane@example.com"})
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	_, err = s.CreateWaitlistEntry(ctx, models.WaitlistEntry{Name: "John", Email: "john@example.com"})
	require.NoError(t, err)

	entries, err := s.ListWaitlistEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2, "duplicate must not create a second row")
	assert.Equal(t, "jane@example.com", entries[0].Email)
	assert.Equal(t, "john@example.com", entries[1].Email)
	assert.False(t, entries[1].AcceptsUpdates)

	absent, err := s.GetWaitlistEntry(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func testAnalytics(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	for _, page := range []string{"home", "about", "projects"} {
		visit, err := s.RecordPageVisit(ctx, page)
		require.NoError(t, err)
		assert.Equal(t, page, visit.Page)
		assert.False(t, visit.Timestamp.IsZero())
	}
	for _, formType := range []string{models.FormTypeWaitlist, models.FormTypeContact} {
		_, err := s.RecordFormSubmission(ctx, formType)
		require.NoError(t, err)
	}

	visits, err := s.ListPageVisits(ctx)
	require.NoError(t, err)
	require.Len(t, visits, 3)
	assert.Equal(t, "projects", visits[0].Page, "newest first")
	assert.Equal(t, "home", visits[2].Page)

	submissions, err := s.ListFormSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	assert.Equal(t, models.FormTypeContact, submissions[0].FormType)
}

func newProject(title string, featured bool) models.Project {
	return models.Project{
		Title:       title,
		Description: "Description of " + title,
		Category:    "Commercial",
		Location:    "Austin, TX",
		ImageURL:    "/images/" + title + ".jpg",
		Featured:    featured,
	}
}

func testProjects(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	first, err := s.CreateProject(ctx, newProject("warehouse", false))
	require.NoError(t, err)
	assert.Nil(t, first.ClientName)

	p := newProject("office-tower", true)
	p.ClientName = models.StringPtr("Acme Corp")
	p.CompletionDate = models.StringPtr("2023")
	second, err := s.CreateProject(ctx, p)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	all, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "office-tower", all[0].Title, "most recent first")

	featured, err := s.ListFeaturedProjects(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, second.ID, featured[0].ID)

	got, err := s.GetProject(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.ClientName)
	assert.Equal(t, "Acme Corp", *got.ClientName)
	assert.True(t, got.Featured)

	missing, err := s.GetProject(ctx, second.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testServices(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	for _, svc := range []models.Service{
		{Title: "Renovation", Description: "Full remodels", IconName: "hammer", Featured: true},
		{Title: "Design-Build", Description: "One contract", IconName: "ruler"},
		{Title: "General Contracting", Description: "Site management", IconName: "hardhat", Featured: true},
	} {
		_, err := s.CreateService(ctx, svc)
		require.NoError(t, err)
	}

	all, err := s.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Design-Build", "General Contracting", "Renovation"},
		[]string{all[0].Title, all[1].Title, all[2].Title})

	featured, err := s.ListFeaturedServices(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, "General Contracting", featured[0].Title)

	got, err := s.GetService(ctx, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ruler", got.IconName)

	missing, err := s.GetService(ctx, all[2].ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testCompanyInfo(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	absent, err := s.GetCompanyInfo(ctx, "mission")
	require.NoError(t, err)
	assert.Nil(t, absent)

	_, err = s.UpsertCompanyInfo(ctx, models.CompanyInfo{Section: "mission", Content: "<p>Build well.</p>"})
	require.NoError(t, err)
	_, err = s.UpsertCompanyInfo(ctx, models.CompanyInfo{Section: "about", Content: "<p>Since 1998.</p>"})
	require.NoError(t, err)

	first, err := s.GetCompanyInfo(ctx, "mission")
	require.NoError(t, err)
	second, err := s.GetCompanyInfo(ctx, "mission")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, first.Content, second.Content, "reads are idempotent")

	updated, err := s.UpsertCompanyInfo(ctx, models.CompanyInfo{Section: "mission", Content: "<p>Build better.</p>"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID, "upsert keeps the row")

	all, err := s.ListCompanyInfo(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "about", all[0].Section)
	assert.Equal(t, "<p>Build better.</p>", all[1].Content)
}

func testContactMessages(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	msg, err := s.CreateContactMessage(ctx, models.ContactMessage{
		Name:    "Jane",
		Email:   "jane@example.com",
		Subject: "Quote request",
		Message: "Please send a quote for a deck.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusNew, msg.Status)

	updated, err := s.UpdateContactMessageStatus(ctx, msg.ID, models.ContactStatusRead)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusRead, updated.Status)

	_, err = s.UpdateContactMessageStatus(ctx, msg.ID+100, models.ContactStatusRead)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	all, err := s.ListContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.ContactStatusRead, all[0].Status)
}

func testEmptyLists(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	services, err := s.ListServices(ctx)
	require.NoError(t, err)
	assert.NotNil(t, services)
	assert.Empty(t, services)

	projects, err := s.ListFeaturedProjects(ctx)
	require.NoError(t, err)
	assert.NotNil(t, projects)

	info, err := s.ListCompanyInfo(ctx)
	require.NoError(t, err)
	assert.NotNil(t, info)
}
