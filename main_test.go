package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/buildsite-backend/auth"
	"github.com/rpupo63/buildsite-backend/storage/memory"
)

func TestSeedIsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, seed(ctx, store))
	require.NoError(t, seed(ctx, store))

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, len(sampleProjects))

	featured, err := store.ListFeaturedServices(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	info, err := store.ListCompanyInfo(ctx)
	require.NoError(t, err)
	assert.Len(t, info, len(sampleCompanyInfo))
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, createAdmin(ctx, store, "admin", "correct horse"))
	require.NoError(t, createAdmin(ctx, store, "admin", "something else"))

	user, err := store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NoError(t, auth.CheckPassword(user.PasswordHash, "correct horse"))

	assert.Error(t, createAdmin(ctx, store, "admin2", "short"))
}
