package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelValueUnmarshal(t *testing.T) {
	t.Run("ScalarString", func(t *testing.T) {
		var c ChannelValue
		require.NoError(t, json.Unmarshal([]byte(`"sms"`), &c))
		assert.Equal(t, ChannelValue{"sms"}, c)
	})

	t.Run("Sequence", func(t *testing.T) {
		var c ChannelValue
		require.NoError(t, json.Unmarshal([]byte(`["sms","email"]`), &c))
		assert.Equal(t, ChannelValue{"sms", "email"}, c)
	})

	t.Run("Null", func(t *testing.T) {
		var c ChannelValue
		require.NoError(t, json.Unmarshal([]byte(`null`), &c))
		assert.Nil(t, c)
	})

	t.Run("NumberIsError", func(t *testing.T) {
		var c ChannelValue
		assert.Error(t, json.Unmarshal([]byte(`42`), &c))
	})

	t.Run("InsideRequestBody", func(t *testing.T) {
		var req CreateCampaignRequest
		body := `{"name":"Spring Outreach","channel":["voice","sms"],"geographic_scope":{"type":"county","counties":["Fulton"],"cities":["Atlanta"]}}`
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		assert.Equal(t, ChannelValue{"voice", "sms"}, req.Channel)
		require.NotNil(t, req.GeographicScope)
		assert.Equal(t, []string{"Fulton"}, req.GeographicScope.Counties)
	})
}
