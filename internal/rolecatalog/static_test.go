package rolecatalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideahub/ideahub/internal/rolecatalog"
)

func newCatalog(t *testing.T) *rolecatalog.StaticCatalog {
	t.Helper()
	c, err := rolecatalog.NewStaticCatalog()
	require.NoError(t, err)
	return c
}

func TestFindByName_Canonical(t *testing.T) {
	c := newCatalog(t)

	def, err := c.FindByName(context.Background(), "  Developer ")
	require.NoError(t, err)

	assert.Equal(t, "Developer", def.CanonicalName)
	assert.Equal(t, "developer", def.NormalizedName)
	assert.True(t, def.IsCore)
	assert.NotEmpty(t, def.CommonSubroles)
}

func TestFindByName_AlternativeName(t *testing.T) {
	c := newCatalog(t)

	def, err := c.FindByName(context.Background(), "CODER")
	require.NoError(t, err)
	assert.Equal(t, "Developer", def.CanonicalName)

	def, err = c.FindByName(context.Background(), "pm")
	require.NoError(t, err)
	assert.Equal(t, "Product Manager", def.CanonicalName)
}

func TestFindByName_NotFound(t *testing.T) {
	c := newCatalog(t)

	_, err := c.FindByName(context.Background(), "Underwater Basket Weaver")
	assert.ErrorIs(t, err, rolecatalog.ErrDefinitionNotFound)
}

func TestFindSimilar_OrderedByCanonicalName(t *testing.T) {
	c := newCatalog(t)

	matches, err := c.FindSimilar(context.Background(), "developer")
	require.NoError(t, err)

	require.NotEmpty(t, matches)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].CanonicalName, matches[i].CanonicalName)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.CanonicalName)
	}
	assert.Contains(t, names, "Developer")
	assert.Contains(t, names, "Frontend Developer")
	assert.Contains(t, names, "Backend Developer")
}

func TestFindSimilar_ThroughSimilarRoles(t *testing.T) {
	c := newCatalog(t)

	matches, err := c.FindSimilar(context.Background(), "Data Scientist")
	require.NoError(t, err)

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m.CanonicalName)
	}
	assert.Contains(t, names, "Data Analyst")
}

func TestFindSimilar_NoMatch(t *testing.T) {
	c := newCatalog(t)

	matches, err := c.FindSimilar(context.Background(), "zookeeper")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSubrolesOf(t *testing.T) {
	c := newCatalog(t)

	subs, err := c.SubrolesOf(context.Background(), "Designer", "")
	require.NoError(t, err)

	require.Len(t, subs, 5)
	assert.Equal(t, "UI Designer", subs[0].Name)
	assert.Equal(t, "intermediate", subs[0].SkillLevel)
}

func TestSubrolesOf_CategorySortsFirst(t *testing.T) {
	c := newCatalog(t)

	subs, err := c.SubrolesOf(context.Background(), "Developer", "mobile")
	require.NoError(t, err)

	require.NotEmpty(t, subs)
	assert.Equal(t, "Mobile Developer", subs[0].Name)
	// The set itself is unchanged, only reordered.
	assert.Len(t, subs, 6)
}

func TestSubrolesOf_UnknownRole(t *testing.T) {
	c := newCatalog(t)

	_, err := c.SubrolesOf(context.Background(), "Astronaut", "")
	assert.ErrorIs(t, err, rolecatalog.ErrDefinitionNotFound)
}
