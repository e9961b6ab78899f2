//go:build integration

package businessflow

import (
	"testing"
	"time"

	"github.com/amirphl/concept-studio/models"
	testingutil "github.com/amirphl/concept-studio/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConceptGatewayPostgres(t *testing.T) {
	err := testingutil.TestWithPostgres(func(testDB *testingutil.TestDB) error {
		h := newConceptHarness(testDB)
		ctx := testingutil.CreateTestContext()

		a1, err := h.fixtures.CreateTestAudience(nil)
		require.NoError(t, err)
		a2 := testingutil.TechMillennials()
		a2.Name = "Retirees Abroad"
		a2, err = h.fixtures.CreateTestAudience(a2)
		require.NoError(t, err)

		root, err := h.gateway.InsertConcept(ctx, a1.ID, "Code & Controllers", "Dev culture meets esports nights.", nil)
		require.NoError(t, err)
		require.NotNil(t, root.Audience)
		assert.Equal(t, a1.Name, root.Audience.Name)

		t.Run("GatewayRejectsParentMismatch", func(t *testing.T) {
			_, err := h.gateway.InsertConcept(ctx, a2.ID, "Borrowed", "Crosses audiences.", &root.ID)
			assert.ErrorIs(t, err, ErrParentMismatch)
		})

		t.Run("TriggerRejectsParentMismatch", func(t *testing.T) {
			// Direct insert skips the gateway check, so the store must refuse it
			_, err := h.fixtures.CreateTestConcept(a2.ID, "Borrowed", "Crosses audiences.", &root.ID, time.Time{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "different audience")
		})

		t.Run("BlankTitleRejectedByStore", func(t *testing.T) {
			_, err := h.fixtures.CreateTestConcept(a1.ID, "   ", "Has no title.", nil, time.Time{})
			assert.Error(t, err)
		})

		t.Run("OptimisticWrite", func(t *testing.T) {
			current, err := h.gateway.GetConcept(ctx, root.ID)
			require.NoError(t, err)
			token := current.UpdatedAt

			updated, err := h.gateway.UpdateConceptContent(ctx, root.ID, "Code & Controllers II", "Round two.", &token)
			require.NoError(t, err)
			assert.True(t, updated.UpdatedAt.After(token))

			_, err = h.gateway.UpdateConceptContent(ctx, root.ID, "Late writer", "Lost the race.", &token)
			assert.ErrorIs(t, err, ErrConceptModified)
		})

		t.Run("DeleteNullsChildrenAndAudienceCascades", func(t *testing.T) {
			child, err := h.gateway.InsertConcept(ctx, a1.ID, "Child", "Remixed from root.", &root.ID)
			require.NoError(t, err)

			require.NoError(t, h.gateway.DeleteConcept(ctx, root.ID))
			orphan, err := h.gateway.GetConcept(ctx, child.ID)
			require.NoError(t, err)
			require.NotNil(t, orphan)
			assert.Nil(t, orphan.ParentConceptID)

			require.NoError(t, testDB.DB.Delete(&models.Audience{}, "id = ?", a1.ID).Error)
			_, err = h.gateway.GetConcept(ctx, child.ID)
			assert.ErrorIs(t, err, ErrConceptNotFound)
		})

		return nil
	})
	require.NoError(t, err)
}
