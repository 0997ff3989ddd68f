package businessflow

import (
	"testing"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGeographicScope(t *testing.T) {
	t.Run("CountiesWinOverCities", func(t *testing.T) {
		scope := &dto.GeographicScope{
			Type:     "county",
			Counties: []string{"Fulton", "DeKalb"},
			Cities:   []string{"Atlanta"},
		}

		scopeType, values := ResolveGeographicScope(scope, nil, nil)
		assert.Equal(t, "county", scopeType)
		assert.Equal(t, []string{"Fulton", "DeKalb"}, values)
	})

	t.Run("CitiesUsedWhenCountiesAbsent", func(t *testing.T) {
		scope := &dto.GeographicScope{
			Type:   "city",
			Cities: []string{"Austin", "Dallas"},
		}

		scopeType, values := ResolveGeographicScope(scope, nil, nil)
		assert.Equal(t, "city", scopeType)
		assert.Equal(t, []string{"Austin", "Dallas"}, values)
	})

	t.Run("NestedScopeWinsOverFlatFields", func(t *testing.T) {
		scope := &dto.GeographicScope{
			Type:     "state",
			States:   []string{"TX"},
			Zipcodes: []string{"30301"},
		}
		flatType := "zip"

		scopeType, values := ResolveGeographicScope(scope, &flatType, []string{"78701"})
		assert.Equal(t, "state", scopeType)
		assert.Equal(t, []string{"TX"}, values)
	})

	t.Run("FlatFieldsUsedWithoutNestedScope", func(t *testing.T) {
		flatType := "zip"

		scopeType, values := ResolveGeographicScope(nil, &flatType, []string{"78701", "78702"})
		assert.Equal(t, "zip", scopeType)
		assert.Equal(t, []string{"78701", "78702"}, values)
	})

	t.Run("DefaultsWhenNothingProvided", func(t *testing.T) {
		scopeType, values := ResolveGeographicScope(nil, nil, nil)
		assert.Equal(t, "zip", scopeType)
		assert.Equal(t, []string{}, values)
	})

	t.Run("NestedScopeWithEmptyTypeFallsBackToDefault", func(t *testing.T) {
		scope := &dto.GeographicScope{Counties: []string{"Travis"}}

		scopeType, values := ResolveGeographicScope(scope, nil, nil)
		assert.Equal(t, "zip", scopeType)
		assert.Equal(t, []string{"Travis"}, values)
	})
}

func TestResolveChannel(t *testing.T) {
	t.Run("FirstElementWins", func(t *testing.T) {
		assert.Equal(t, "sms", ResolveChannel(dto.ChannelValue{"sms", "email", "voice"}))
	})

	t.Run("EmptyDefaultsToEmail", func(t *testing.T) {
		assert.Equal(t, "email", ResolveChannel(nil))
		assert.Equal(t, "email", ResolveChannel(dto.ChannelValue{}))
	})
}

func TestWrapChannel(t *testing.T) {
	assert.Equal(t, []string{"sms"}, WrapChannel("sms"))
	assert.Equal(t, []string{}, WrapChannel(""))
}

func TestListRoundTrip(t *testing.T) {
	t.Run("EncodeThenParseIsIdentity", func(t *testing.T) {
		values := []string{"30301", "30302", "30303"}
		assert.Equal(t, values, ParseListOrDefault(EncodeList(values), []string{}))
	})

	t.Run("NilEncodesAsEmptySequence", func(t *testing.T) {
		assert.Equal(t, "[]", EncodeList(nil))
		assert.Equal(t, []string{}, ParseListOrDefault(EncodeList(nil), []string{}))
	})

	t.Run("SingleQuotedLegacyFormParses", func(t *testing.T) {
		assert.Equal(t, []string{"Fulton", "DeKalb"}, ParseListOrDefault(`['Fulton', 'DeKalb']`, []string{}))
	})

	t.Run("CorruptTextYieldsDefaultNotError", func(t *testing.T) {
		for _, corrupt := range []string{"{not a list}", "[unterminated", "garbage", `["half",`} {
			assert.Equal(t, []string{}, ParseListOrDefault(corrupt, []string{}), "input %q", corrupt)
		}
	})

	t.Run("CallerDefaultComesBackOnFailure", func(t *testing.T) {
		def := []string{"fallback"}
		assert.Equal(t, def, ParseListOrDefault("garbage", def))
		assert.Equal(t, def, ParseListOrDefault("", def))
	})

	t.Run("EmptyStoredTextYieldsDefault", func(t *testing.T) {
		assert.Equal(t, []string{}, ParseListOrDefault("", []string{}))
		assert.Equal(t, []string{}, ParseListOrDefault("   ", []string{}))
	})
}

func TestParseOptionalInt(t *testing.T) {
	t.Run("EmptyStringBecomesNil", func(t *testing.T) {
		empty := ""
		v, err := ParseOptionalInt(&empty)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("AbsentBecomesNil", func(t *testing.T) {
		v, err := ParseOptionalInt(nil)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("NumericStringParses", func(t *testing.T) {
		s := " 3 "
		v, err := ParseOptionalInt(&s)
		require.NoError(t, err)
		require.NotNil(t, v)
		assert.Equal(t, 3, *v)
	})

	t.Run("NonNumericStringIsError", func(t *testing.T) {
		s := "three"
		_, err := ParseOptionalInt(&s)
		assert.ErrorIs(t, err, ErrInvalidNumericValue)
	})
}

func TestParseOptionalDecimal(t *testing.T) {
	t.Run("EmptyBecomesNull", func(t *testing.T) {
		empty := ""
		d, err := ParseOptionalDecimal(&empty)
		require.NoError(t, err)
		assert.False(t, d.Valid)
	})

	t.Run("MoneyStringParses", func(t *testing.T) {
		s := "2500.50"
		d, err := ParseOptionalDecimal(&s)
		require.NoError(t, err)
		require.True(t, d.Valid)
		assert.Equal(t, "2500.5", d.Decimal.String())
	})

	t.Run("NonNumericIsError", func(t *testing.T) {
		s := "a lot"
		_, err := ParseOptionalDecimal(&s)
		assert.ErrorIs(t, err, ErrInvalidNumericValue)
	})
}

func TestParseOptionalTime(t *testing.T) {
	t.Run("RFC3339Parses", func(t *testing.T) {
		s := "2026-03-01T10:00:00Z"
		ts, err := ParseOptionalTime(&s)
		require.NoError(t, err)
		require.NotNil(t, ts)
		assert.Equal(t, 2026, ts.Year())
	})

	t.Run("BadTimestampIsError", func(t *testing.T) {
		s := "next tuesday"
		_, err := ParseOptionalTime(&s)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})
}
