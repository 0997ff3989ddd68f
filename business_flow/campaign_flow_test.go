package businessflow

import (
	"testing"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/repository"
	testingutil "github.com/deelflow/deelflow-api/testing"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCampaignFlow(t *testing.T) (CampaignFlow, *testingutil.TestDB) {
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

	flow := NewCampaignFlow(
		repository.NewCampaignRepository(testDB.DB),
		repository.NewLeadRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		repository.NewActivityFeedRepository(testDB.DB),
		testDB.DB,
	)
	return flow, testDB
}

func testMetadata() *ClientMetadata {
	return &ClientMetadata{
		IPAddress: "127.0.0.1",
		UserAgent: "Test User Agent",
	}
}

func TestCampaignFlowCreate(t *testing.T) {
	flow, _ := setupCampaignFlow(t)
	ctx := testingutil.CreateTestContext()

	t.Run("ChannelSequenceCollapsesToFirstElement", func(t *testing.T) {
		created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name:    "Multi Channel Outreach",
			Channel: dto.ChannelValue{"sms", "email", "voice"},
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, []string{"sms"}, created.Channel)

		fetched, err := flow.GetCampaign(ctx, created.UUID)
		require.NoError(t, err)
		assert.Equal(t, []string{"sms"}, fetched.Channel)
	})

	t.Run("MissingChannelDefaultsToEmail", func(t *testing.T) {
		created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name: "No Channel Campaign",
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, []string{"email"}, created.Channel)
	})

	t.Run("NestedScopeCountiesWinOverCities", func(t *testing.T) {
		created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name: "County Targeting",
			GeographicScope: &dto.GeographicScope{
				Type:     "county",
				Counties: []string{"Fulton", "DeKalb"},
				Cities:   []string{"Atlanta"},
			},
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "county", created.GeographicScopeType)
		assert.Equal(t, []string{"Fulton", "DeKalb"}, created.GeographicScopeValues)

		fetched, err := flow.GetCampaign(ctx, created.UUID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Fulton", "DeKalb"}, fetched.GeographicScopeValues)
	})

	t.Run("NestedScopeWinsOverFlatFields", func(t *testing.T) {
		created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name: "Nested Beats Flat",
			GeographicScope: &dto.GeographicScope{
				Type:   "city",
				Cities: []string{"Austin"},
			},
			GeographicScopeType:   utils.ToPtr("zip"),
			GeographicScopeValues: []string{"78701"},
		}, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "city", created.GeographicScopeType)
		assert.Equal(t, []string{"Austin"}, created.GeographicScopeValues)
	})

	t.Run("EmptyBudgetStoredAsNull", func(t *testing.T) {
		created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name:   "No Budget",
			Budget: utils.ToPtr(""),
		}, testMetadata())
		require.NoError(t, err)
		assert.Nil(t, created.Budget)
	})

	t.Run("YearBuiltRangeIsCoerced", func(t *testing.T) {
		created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name:                 "Vintage Stock",
			PropertyYearBuiltMin: utils.ToPtr(" 1990 "),
			PropertyYearBuiltMax: utils.ToPtr(""),
		}, testMetadata())
		require.NoError(t, err)
		require.NotNil(t, created.PropertyYearBuiltMin)
		assert.Equal(t, 1990, *created.PropertyYearBuiltMin)
		assert.Nil(t, created.PropertyYearBuiltMax)
	})

	t.Run("NonNumericYearBuiltIsError", func(t *testing.T) {
		_, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name:                 "Bad Year",
			PropertyYearBuiltMin: utils.ToPtr("nineteen ninety"),
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidNumericValue(err))
	})

	t.Run("NonNumericBudgetIsError", func(t *testing.T) {
		_, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name:   "Bad Budget",
			Budget: utils.ToPtr("lots of money"),
		}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsInvalidNumericValue(err))
	})

	t.Run("MissingNameIsError", func(t *testing.T) {
		_, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{}, testMetadata())
		require.Error(t, err)
		assert.True(t, IsCampaignNameRequired(err))
	})
}

func TestCampaignFlowListPersistence(t *testing.T) {
	flow, testDB := setupCampaignFlow(t)
	ctx := testingutil.CreateTestContext()

	t.Run("ListsRoundTripThroughStoredText", func(t *testing.T) {
		created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name: "Distressed Sellers",
			GeographicScope: &dto.GeographicScope{
				Type:     "zip",
				Zipcodes: []string{"30301", "30302"},
			},
			DistressIndicators: []string{"pre_foreclosure", "tax_lien"},
		}, testMetadata())
		require.NoError(t, err)

		fetched, err := flow.GetCampaign(ctx, created.UUID)
		require.NoError(t, err)
		assert.Equal(t, []string{"30301", "30302"}, fetched.GeographicScopeValues)
		assert.Equal(t, []string{"pre_foreclosure", "tax_lien"}, fetched.DistressIndicators)
	})

	t.Run("CorruptStoredListReadsAsEmpty", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures(testDB)
		campaign, err := fixtures.CreateTestCampaign("Corrupt Scope", "email")
		require.NoError(t, err)

		err = testDB.DB.Model(campaign).Update("geographic_scope_values", "{definitely not a list").Error
		require.NoError(t, err)

		fetched, err := flow.GetCampaign(ctx, campaign.UUID.String())
		require.NoError(t, err)
		assert.Equal(t, []string{}, fetched.GeographicScopeValues)
	})

	t.Run("LegacySingleQuotedListParses", func(t *testing.T) {
		fixtures := testingutil.NewTestFixtures(testDB)
		campaign, err := fixtures.CreateTestCampaign("Legacy Scope", "email")
		require.NoError(t, err)

		err = testDB.DB.Model(campaign).Update("geographic_scope_values", `['Fulton', 'DeKalb']`).Error
		require.NoError(t, err)

		fetched, err := flow.GetCampaign(ctx, campaign.UUID.String())
		require.NoError(t, err)
		assert.Equal(t, []string{"Fulton", "DeKalb"}, fetched.GeographicScopeValues)
	})
}

func TestCampaignFlowPerformance(t *testing.T) {
	flow, testDB := setupCampaignFlow(t)
	ctx := testingutil.CreateTestContext()
	fixtures := testingutil.NewTestFixtures(testDB)

	t.Run("OutreachEstimatesAndCostPerLeadArePopulated", func(t *testing.T) {
		campaign, err := fixtures.CreateTestCampaign("Absentee Owner Outreach", "email")
		require.NoError(t, err)
		_, err = fixtures.CreateTestLead(&campaign.ID)
		require.NoError(t, err)
		_, err = fixtures.CreateTestLead(&campaign.ID)
		require.NoError(t, err)

		perf, err := flow.GetCampaignPerformance(ctx, campaign.UUID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(2), perf.TotalLeads)
		assert.Equal(t, int64(50), perf.EmailsSent)
		assert.Greater(t, perf.EmailOpenRate, 0.0)
		assert.Greater(t, perf.ResponseRate, 0.0)
		require.NotNil(t, perf.CostPerLead)
		assert.Equal(t, "2500", *perf.CostPerLead)
	})

	t.Run("NoLeadsLeavesCostPerLeadNull", func(t *testing.T) {
		campaign, err := fixtures.CreateTestCampaign("Quiet Campaign", "email")
		require.NoError(t, err)

		perf, err := flow.GetCampaignPerformance(ctx, campaign.UUID.String())
		require.NoError(t, err)
		assert.Equal(t, int64(0), perf.TotalLeads)
		assert.Equal(t, int64(0), perf.EmailsSent)
		assert.Nil(t, perf.CostPerLead)
	})
}

func TestCampaignFlowDelete(t *testing.T) {
	flow, _ := setupCampaignFlow(t)
	ctx := testingutil.CreateTestContext()

	t.Run("DeleteExistingCampaign", func(t *testing.T) {
		created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name: "Short Lived",
		}, testMetadata())
		require.NoError(t, err)

		require.NoError(t, flow.DeleteCampaign(ctx, created.UUID, testMetadata()))

		_, err = flow.GetCampaign(ctx, created.UUID)
		require.Error(t, err)
		assert.True(t, IsCampaignNotFound(err))
	})

	t.Run("DeleteNonexistentCampaignIsNotFound", func(t *testing.T) {
		err := flow.DeleteCampaign(ctx, "0b6cc1a2-9e89-4a41-9e2d-000000000000", testMetadata())
		require.Error(t, err)
		assert.True(t, IsCampaignNotFound(err))
	})
}
