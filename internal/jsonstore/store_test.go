package jsonstore_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubpulse/internal/domain"
	"github.com/clubpulse/internal/jsonstore"
)

func TestReadAllMissingFile(t *testing.T) {
	store := jsonstore.NewStore(t.TempDir())

	teams, err := jsonstore.ReadAll[domain.Team](store, "teams")
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestReadAllMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teams.json"), []byte("{not json"), 0o644))

	store := jsonstore.NewStore(dir)
	_, err := jsonstore.ReadAll[domain.Team](store, "teams")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCorruptData)
}

func TestWriteAllCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store := jsonstore.NewStore(dir)

	team := domain.Team{ID: "t1", Name: "Hawks", CreatedAt: time.Now()}
	require.NoError(t, jsonstore.WriteAll(store, "teams", []domain.Team{team}))

	teams, err := jsonstore.ReadAll[domain.Team](store, "teams")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Hawks", teams[0].Name)
}

func TestWriteAllLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := jsonstore.NewStore(dir)

	require.NoError(t, jsonstore.WriteAll(store, "teams", []domain.Team{{ID: "t1", Name: "Hawks"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "teams.json", entries[0].Name())
}

func TestCreateRejectsDuplicateKey(t *testing.T) {
	store := jsonstore.NewStore(t.TempDir())

	team := domain.Team{ID: "t1", Name: "Hawks", CreatedAt: time.Now()}
	require.NoError(t, jsonstore.Create(store, "teams", team))

	err := jsonstore.Create(store, "teams", domain.Team{ID: "t1", Name: "Owls"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecordExists)

	teams, err := jsonstore.ReadAll[domain.Team](store, "teams")
	require.NoError(t, err)
	assert.Len(t, teams, 1)
}

func TestCreateRoundTrip(t *testing.T) {
	store := jsonstore.NewStore(t.TempDir())

	created := domain.Player{
		ID:           "p1",
		Name:         "Dana",
		Email:        "dana@example.com",
		TeamID:       "t1",
		RegisteredAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, jsonstore.Create(store, "players", created))

	fetched, ok, err := jsonstore.FindByKey[domain.Player](store, "players", "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, created.Email, fetched.Email)
	assert.Equal(t, created.TeamID, fetched.TeamID)
	assert.True(t, created.RegisteredAt.Equal(fetched.RegisteredAt))
}

func TestFindByKeyAbsent(t *testing.T) {
	store := jsonstore.NewStore(t.TempDir())

	_, ok, err := jsonstore.FindByKey[domain.Team](store, "teams", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilterPreservesInsertionOrder(t *testing.T) {
	store := jsonstore.NewStore(t.TempDir())

	for _, p := range []domain.Player{
		{ID: "p1", TeamID: "t1", Email: "a@example.com"},
		{ID: "p2", TeamID: "t2", Email: "b@example.com"},
		{ID: "p3", TeamID: "t1", Email: "c@example.com"},
	} {
		require.NoError(t, jsonstore.Create(store, "players", p))
	}

	matched, err := jsonstore.Filter(store, "players", func(p domain.Player) bool {
		return p.TeamID == "t1"
	})
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "p1", matched[0].ID)
	assert.Equal(t, "p3", matched[1].ID)
}

func TestUpdateMutatesInPlace(t *testing.T) {
	store := jsonstore.NewStore(t.TempDir())

	require.NoError(t, jsonstore.Create(store, "summaries", domain.Summary{
		PracticeID:  "pr1",
		Text:        "first",
		GeneratedAt: time.Now(),
	}))
	require.NoError(t, jsonstore.Create(store, "summaries", domain.Summary{
		PracticeID:  "pr2",
		Text:        "other",
		GeneratedAt: time.Now(),
	}))

	updated, err := jsonstore.Update(store, "summaries", "pr1", func(s domain.Summary) domain.Summary {
		s.Text = "second"
		return s
	})
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Text)

	all, err := jsonstore.ReadAll[domain.Summary](store, "summaries")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "pr1", all[0].PracticeID)
	assert.Equal(t, "second", all[0].Text)
	assert.Equal(t, "other", all[1].Text)
}

func TestUpdateMissingRecord(t *testing.T) {
	store := jsonstore.NewStore(t.TempDir())

	_, err := jsonstore.Update(store, "summaries", "missing", func(s domain.Summary) domain.Summary {
		return s
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
