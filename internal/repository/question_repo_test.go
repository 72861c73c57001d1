package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQuestionSet(t *testing.T) {
	set := DefaultQuestionSet()

	require.Len(t, set.Questions, 26)
	assert.Equal(t, "ascendant-protocol", set.Key)
	assert.Equal(t, "commitment", set.Questions[25].ID)

	ids := make(map[string]bool)
	for _, q := range set.Questions {
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.Section)
		assert.NotEmpty(t, q.Statement)
		assert.False(t, ids[q.ID], "duplicate id %s", q.ID)
		ids[q.ID] = true
	}
	assert.Equal(t, []string{"Discipline", "Focus", "Resilience", "Ownership", "Vision", "Commitment"}, set.Sections())
}

func TestYAMLRepo_GetSet(t *testing.T) {
	repo := NewDefaultQuestionRepo()
	ctx := context.Background()

	set, err := repo.GetSet(ctx, "ascendant-protocol")
	require.NoError(t, err)
	set.Questions[0].ID = "mutated"

	again, err := repo.GetSet(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "discipline-1", again.Questions[0].ID)

	_, err = repo.GetSet(ctx, "other")
	assert.ErrorIs(t, err, ErrSetNotFound)
}

func TestFileRepo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	doc := `
questions:
  - id: a
    section: One
    statement: First
  - id: b
    section: One
    statement: Second
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	repo, err := NewFileQuestionRepo(path)
	require.NoError(t, err)

	set, err := repo.GetSet(context.Background(), "any-key")
	require.NoError(t, err)
	require.Len(t, set.Questions, 2)
	assert.Equal(t, "b", set.Questions[1].ID)
}

func TestParseQuestionSet_EmptyIsValid(t *testing.T) {
	set, err := ParseQuestionSet([]byte("key: x\nquestions: []\n"))
	require.NoError(t, err)
	assert.Equal(t, "x", set.Key)
	assert.Empty(t, set.Questions)

	set, err = ParseQuestionSet([]byte("key: y\n"))
	require.NoError(t, err)
	assert.Empty(t, set.Questions)
}

func TestParseQuestionSet_Errors(t *testing.T) {
	_, err := ParseQuestionSet([]byte("questions: [unterminated"))
	assert.Error(t, err)

	_, err = NewFileQuestionRepo(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
