package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/concept-studio/models"
	"github.com/amirphl/concept-studio/repository"
	testingutil "github.com/amirphl/concept-studio/testing"
	"github.com/amirphl/concept-studio/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudienceRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAudienceRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SaveAssignsID", func(t *testing.T) {
			audience := testingutil.TechMillennials()
			audience.CreatedAt = utils.StoreNow()
			require.NoError(t, repo.Save(ctx, audience))
			assert.NotEqual(t, uuid.Nil, audience.ID)

			found, err := repo.ByID(ctx, audience.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, "Tech Millennials", found.Name)
			assert.Equal(t, pq.StringArray{"Technology", "Gaming"}, found.Interests)
			assert.True(t, audience.CreatedAt.Equal(found.CreatedAt))
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			found, err := repo.ByID(ctx, uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("SaveBatch", func(t *testing.T) {
			first := testingutil.TechMillennials()
			second := testingutil.TechMillennials()
			second.Name = "Weekend Cyclists"
			second.Interests = pq.StringArray{"Sports", "Travel"}
			for _, a := range []*models.Audience{first, second} {
				a.CreatedAt = utils.StoreNow()
			}

			require.NoError(t, repo.SaveBatch(ctx, []*models.Audience{first, second}))
			for _, a := range []*models.Audience{first, second} {
				found, err := repo.ByID(ctx, a.ID)
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, a.Name, found.Name)
			}
		})

		t.Run("ListLatestNewestFirst", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			base := utils.StoreNow()
			for i, name := range []string{"Oldest", "Middle", "Newest"} {
				a := testingutil.TechMillennials()
				a.Name = name
				a.CreatedAt = base.Add(time.Duration(i) * time.Second)
				_, err := fixtures.CreateTestAudience(a)
				require.NoError(t, err)
			}

			rows, err := repo.ListLatest(ctx, 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, "Newest", rows[0].Name)
			assert.Equal(t, "Oldest", rows[2].Name)

			limited, err := repo.ListLatest(ctx, 2, 1)
			require.NoError(t, err)
			require.Len(t, limited, 2)
			assert.Equal(t, "Middle", limited[0].Name)
		})

		t.Run("Update", func(t *testing.T) {
			a, err := fixtures.CreateTestAudience(nil)
			require.NoError(t, err)

			a.Name = "Retro Gamers"
			a.Interests = pq.StringArray{"Gaming"}
			ok, err := repo.Update(ctx, a)
			require.NoError(t, err)
			assert.True(t, ok)

			found, err := repo.ByID(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, "Retro Gamers", found.Name)
			assert.Equal(t, pq.StringArray{"Gaming"}, found.Interests)
			assert.True(t, a.CreatedAt.Equal(found.CreatedAt))

			ok, err = repo.Update(ctx, &models.Audience{ID: uuid.New(), Name: "ghost"})
			require.NoError(t, err)
			assert.False(t, ok)
		})

		t.Run("CountAndExists", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			_, err := fixtures.CreateTestAudience(nil)
			require.NoError(t, err)

			name := "Tech Millennials"
			count, err := repo.Count(ctx, models.AudienceFilter{Name: &name})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			missing := "Nobody"
			exists, err := repo.Exists(ctx, models.AudienceFilter{Name: &missing})
			require.NoError(t, err)
			assert.False(t, exists)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestConceptRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewConceptRepository(testDB.DB)
		audienceRepo := repository.NewAudienceRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("ByIDWithAudience", func(t *testing.T) {
			audience, err := fixtures.CreateTestAudience(nil)
			require.NoError(t, err)
			concept, err := fixtures.CreateTestConcept(audience.ID, "Pixel Quest", "A hunt.", nil, time.Time{})
			require.NoError(t, err)

			found, err := repo.ByIDWithAudience(ctx, concept.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			require.NotNil(t, found.Audience)
			assert.Equal(t, audience.ID, found.Audience.ID)
			assert.Equal(t, models.ConceptStateRoot, found.State())

			missing, err := repo.ByIDWithAudience(ctx, uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("ListLatestWithAudience", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			audience, err := fixtures.CreateTestAudience(nil)
			require.NoError(t, err)

			base := utils.StoreNow()
			first, err := fixtures.CreateTestConcept(audience.ID, "First", "D", nil, base)
			require.NoError(t, err)
			second, err := fixtures.CreateTestConcept(audience.ID, "Second", "D", &first.ID, base.Add(time.Second))
			require.NoError(t, err)

			rows, err := repo.ListLatestWithAudience(ctx, 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, second.ID, rows[0].ID)
			assert.Equal(t, models.ConceptStateDerived, rows[0].State())
			assert.NotNil(t, rows[0].Audience)
			assert.NotNil(t, rows[1].Audience)

			children, err := repo.ListChildren(ctx, first.ID)
			require.NoError(t, err)
			require.Len(t, children, 1)
			assert.Equal(t, second.ID, children[0].ID)
		})

		t.Run("UpdateContentKeepsParent", func(t *testing.T) {
			audience, err := fixtures.CreateTestAudience(nil)
			require.NoError(t, err)
			root, err := fixtures.CreateTestConcept(audience.ID, "Root", "D", nil, time.Time{})
			require.NoError(t, err)
			child, err := fixtures.CreateTestConcept(audience.ID, "Child", "D", &root.ID, time.Time{})
			require.NoError(t, err)

			next := child.UpdatedAt.Add(time.Second)
			affected, err := repo.UpdateContent(ctx, child.ID, "Child v2", "D2", next, nil)
			require.NoError(t, err)
			assert.Equal(t, int64(1), affected)

			found, err := repo.ByID(ctx, child.ID)
			require.NoError(t, err)
			assert.Equal(t, "Child v2", found.Title)
			require.NotNil(t, found.ParentConceptID)
			assert.Equal(t, root.ID, *found.ParentConceptID)
			assert.True(t, next.Equal(found.UpdatedAt))
			assert.True(t, child.CreatedAt.Equal(found.CreatedAt))
		})

		t.Run("UpdateContentWithStaleToken", func(t *testing.T) {
			audience, err := fixtures.CreateTestAudience(nil)
			require.NoError(t, err)
			c, err := fixtures.CreateTestConcept(audience.ID, "Root", "D", nil, time.Time{})
			require.NoError(t, err)

			stale := c.UpdatedAt.Add(-time.Minute)
			affected, err := repo.UpdateContent(ctx, c.ID, "X", "Y", utils.StoreNow(), &stale)
			require.NoError(t, err)
			assert.Equal(t, int64(0), affected)

			current := c.UpdatedAt
			affected, err = repo.UpdateContent(ctx, c.ID, "X", "Y", current.Add(time.Second), &current)
			require.NoError(t, err)
			assert.Equal(t, int64(1), affected)
		})

		t.Run("DeleteNullsChildrenParent", func(t *testing.T) {
			audience, err := fixtures.CreateTestAudience(nil)
			require.NoError(t, err)
			root, err := fixtures.CreateTestConcept(audience.ID, "Root", "D", nil, time.Time{})
			require.NoError(t, err)
			child, err := fixtures.CreateTestConcept(audience.ID, "Child", "D", &root.ID, time.Time{})
			require.NoError(t, err)

			deleted, err := repo.Delete(ctx, root.ID)
			require.NoError(t, err)
			assert.True(t, deleted)

			found, err := repo.ByID(ctx, child.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Nil(t, found.ParentConceptID)
			assert.True(t, found.IsRoot())

			deleted, err = repo.Delete(ctx, root.ID)
			require.NoError(t, err)
			assert.False(t, deleted)
		})

		t.Run("AudienceDeleteCascades", func(t *testing.T) {
			audience, err := fixtures.CreateTestAudience(nil)
			require.NoError(t, err)
			c, err := fixtures.CreateTestConcept(audience.ID, "Root", "D", nil, time.Time{})
			require.NoError(t, err)

			_, err = audienceRepo.Delete(ctx, audience.ID)
			require.NoError(t, err)

			found, err := repo.ByID(ctx, c.ID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("RootsOnlyFilter", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			audience, err := fixtures.CreateTestAudience(nil)
			require.NoError(t, err)
			root, err := fixtures.CreateTestConcept(audience.ID, "Root", "D", nil, time.Time{})
			require.NoError(t, err)
			_, err = fixtures.CreateTestConcept(audience.ID, "Child", "D", &root.ID, time.Time{})
			require.NoError(t, err)

			roots, err := repo.Count(ctx, models.ConceptFilter{RootsOnly: utils.ToPtr(true)})
			require.NoError(t, err)
			assert.Equal(t, int64(1), roots)

			derived, err := repo.Count(ctx, models.ConceptFilter{RootsOnly: utils.ToPtr(false)})
			require.NoError(t, err)
			assert.Equal(t, int64(1), derived)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransactionRollsBack(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAudienceRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		audience := testingutil.TechMillennials()
		audience.CreatedAt = utils.StoreNow()

		txErr := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
			require.NoError(t, repo.Save(txCtx, audience))
			return assert.AnError
		})
		assert.ErrorIs(t, txErr, assert.AnError)

		found, err := repo.ByID(ctx, audience.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
		return nil
	})
	require.NoError(t, err)
}
