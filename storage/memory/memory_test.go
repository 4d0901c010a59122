package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/buildsite-backend/models"
	"github.com/rpupo63/buildsite-backend/storage"
	"github.com/rpupo63/buildsite-backend/storage/storagetest"
)

func TestStoreConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage { return New() })
}

func TestConcurrentDuplicateWaitlistEntries(t *testing.T) {
	s := New()
	ctx := context.Background()

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateWaitlistEntry(ctx, models.WaitlistEntry{Name: "Jane", Email: "jane@example.com"})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, storage.ErrDuplicate)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	entries, err := s.ListWaitlistEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestProjectsOrderedByCreation(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s := New(WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Hour)
	}))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := s.CreateProject(ctx, models.Project{Title: fmt.Sprintf("p%d", i)})
		require.NoError(t, err)
	}

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "p3", projects[0].Title)
	assert.Equal(t, base.Add(3*time.Hour), projects[0].CreatedAt)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateService(ctx, models.Service{Title: "Roofing", IconName: "roof"})
	require.NoError(t, err)
	created.Title = "mutated"

	got, err := s.GetService(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roofing", got.Title)

	company := "Doe Builders"
	entry, err := s.CreateWaitlistEntry(ctx, models.WaitlistEntry{Name: "Jane", Email: "jane@example.com", Company: &company})
	require.NoError(t, err)
	company = "changed by caller"
	*entry.Company = "changed by result"

	fetched, err := s.GetWaitlistEntry(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, fetched.Company)
	assert.Equal(t, "Doe Builders", *fetched.Company)
	*fetched.Company = "changed by read"

	entries, err := s.ListWaitlistEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Doe Builders", *entries[0].Company)

	project, err := s.CreateProject(ctx, models.Project{Title: "Depot", ClientName: models.StringPtr("Acme")})
	require.NoError(t, err)
	*project.ClientName = "mutated"

	listed, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	*listed[0].ClientName = "mutated again"

	gotProject, err := s.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", *gotProject.ClientName)

	message, err := s.CreateContactMessage(ctx, models.ContactMessage{Name: "Jane", Email: "jane@example.com", Message: "Hi", Phone: models.StringPtr("555-0100")})
	require.NoError(t, err)
	updated, err := s.UpdateContactMessageStatus(ctx, message.ID, models.ContactStatusRead)
	require.NoError(t, err)
	*updated.Phone = "mutated"

	messages, err := s.ListContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "555-0100", *messages[0].Phone)
}

func TestPingHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, New().Ping(ctx), context.Canceled)
}
