package businessflow

import (
	"testing"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/models"
	"github.com/deelflow/deelflow-api/repository"
	testingutil "github.com/deelflow/deelflow-api/testing"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDealFlow(t *testing.T) (DealFlow, *testingutil.TestDB) {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.TeardownTestDB(); err != nil {
			t.Logf("failed to teardown test database: %v", err)
		}
	})

	flow := NewDealFlow(
		repository.NewDealRepository(testDB.DB),
		repository.NewDealMilestoneRepository(testDB.DB),
		repository.NewPropertyRepository(testDB.DB),
		repository.NewLeadRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		repository.NewActivityFeedRepository(testDB.DB),
		testDB.DB,
	)
	return flow, testDB
}

func createDealParties(t *testing.T, testDB *testingutil.TestDB) (*models.Property, *models.Lead, *models.Lead) {
	t.Helper()
	fixtures := testingutil.NewTestFixtures(testDB)

	property, err := fixtures.CreateTestProperty()
	require.NoError(t, err)
	buyer, err := fixtures.CreateTestLead(nil)
	require.NoError(t, err)
	seller, err := fixtures.CreateTestLead(nil)
	require.NoError(t, err)

	return property, buyer, seller
}

func TestDealFlowCreate(t *testing.T) {
	flow, testDB := setupDealFlow(t)
	ctx := testingutil.CreateTestContext()
	property, buyer, seller := createDealParties(t, testDB)

	t.Run("CarriesBuyerAndSellerLeads", func(t *testing.T) {
		created, err := flow.CreateDeal(ctx, &dto.CreateDealRequest{
			DealType:     "wholesale",
			PropertyID:   utils.ToPtr(property.ID),
			BuyerLeadID:  utils.ToPtr(buyer.ID),
			SellerLeadID: utils.ToPtr(seller.ID),
			OfferPrice:   utils.ToPtr("250000"),
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "pending", created.Status)
		require.NotNil(t, created.BuyerLeadID)
		assert.Equal(t, buyer.ID, *created.BuyerLeadID)
		require.NotNil(t, created.SellerLeadID)
		assert.Equal(t, seller.ID, *created.SellerLeadID)
		require.NotNil(t, created.OfferPrice)
		assert.Equal(t, "250000", *created.OfferPrice)

		fetched, err := flow.GetDeal(ctx, created.UUID)
		require.NoError(t, err)
		assert.Equal(t, "pending", fetched.Status)
		assert.Equal(t, created.BuyerLeadID, fetched.BuyerLeadID)
		assert.Equal(t, created.SellerLeadID, fetched.SellerLeadID)
	})

	t.Run("EmptyFinalPriceStoredAsNull", func(t *testing.T) {
		created, err := flow.CreateDeal(ctx, &dto.CreateDealRequest{
			DealType:     "flip",
			PropertyID:   utils.ToPtr(property.ID),
			BuyerLeadID:  utils.ToPtr(buyer.ID),
			SellerLeadID: utils.ToPtr(seller.ID),
			OfferPrice:   utils.ToPtr("180000"),
			FinalPrice:   utils.ToPtr(""),
		}, testMetadata())
		require.NoError(t, err)
		assert.Nil(t, created.FinalPrice)
		assert.Nil(t, created.Commission)
	})

	t.Run("NonNumericOfferPriceIsError", func(t *testing.T) {
		_, err := flow.CreateDeal(ctx, &dto.CreateDealRequest{
			DealType:     "wholesale",
			PropertyID:   utils.ToPtr(property.ID),
			BuyerLeadID:  utils.ToPtr(buyer.ID),
			SellerLeadID: utils.ToPtr(seller.ID),
			OfferPrice:   utils.ToPtr("a quarter million"),
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidNumericValue(err))
	})

	t.Run("UnknownBuyerLeadRejected", func(t *testing.T) {
		_, err := flow.CreateDeal(ctx, &dto.CreateDealRequest{
			DealType:     "wholesale",
			PropertyID:   utils.ToPtr(property.ID),
			BuyerLeadID:  utils.ToPtr(uint(999999)),
			SellerLeadID: utils.ToPtr(seller.ID),
			OfferPrice:   utils.ToPtr("250000"),
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsLeadNotFound(err))
	})
}

func TestDealFlowUpdate(t *testing.T) {
	flow, testDB := setupDealFlow(t)
	ctx := testingutil.CreateTestContext()
	property, buyer, seller := createDealParties(t, testDB)

	created, err := flow.CreateDeal(ctx, &dto.CreateDealRequest{
		DealType:     "wholesale",
		PropertyID:   utils.ToPtr(property.ID),
		BuyerLeadID:  utils.ToPtr(buyer.ID),
		SellerLeadID: utils.ToPtr(seller.ID),
		OfferPrice:   utils.ToPtr("250000"),
	}, testMetadata())
	require.NoError(t, err)

	updated, err := flow.UpdateDeal(ctx, &dto.UpdateDealRequest{
		UUID:       created.UUID,
		Status:     utils.ToPtr("closed"),
		FinalPrice: utils.ToPtr("245000"),
		Commission: utils.ToPtr("7350.50"),
	}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, "closed", updated.Status)
	require.NotNil(t, updated.FinalPrice)
	assert.Equal(t, "245000", *updated.FinalPrice)
	require.NotNil(t, updated.Commission)
	assert.Equal(t, "7350.5", *updated.Commission)
}
