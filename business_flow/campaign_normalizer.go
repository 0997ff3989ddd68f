// Package businessflow contains the core business logic and use cases for CRM workflows
package businessflow

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/deelflow/deelflow-api/app/dto"
	"github.com/deelflow/deelflow-api/utils"
	"github.com/shopspring/decimal"
)

// ResolveGeographicScope flattens the targeting input into (scope_type,
// scope_values). A nested geographic_scope object wins over the flat
// fields; inside the object the list keys are checked in the fixed order
// counties, cities, states, zipcodes and the first one present supplies
// the values. A payload carrying both counties and cities therefore uses
// only counties.
func ResolveGeographicScope(scope *dto.GeographicScope, flatType *string, flatValues []string) (string, []string) {
	if scope != nil {
		scopeType := scope.Type
		if scopeType == "" {
			scopeType = utils.DefaultGeographicScopeType
		}

		switch {
		case scope.Counties != nil:
			return scopeType, scope.Counties
		case scope.Cities != nil:
			return scopeType, scope.Cities
		case scope.States != nil:
			return scopeType, scope.States
		case scope.Zipcodes != nil:
			return scopeType, scope.Zipcodes
		}
		return scopeType, []string{}
	}

	scopeType := utils.DefaultGeographicScopeType
	if flatType != nil && *flatType != "" {
		scopeType = *flatType
	}
	if flatValues == nil {
		flatValues = []string{}
	}
	return scopeType, flatValues
}

// ResolveChannel collapses the accepted scalar-or-sequence channel into
// the single persisted value. An empty sequence (or absent channel)
// defaults to "email"; otherwise the first element wins.
func ResolveChannel(channel dto.ChannelValue) string {
	if len(channel) == 0 {
		return utils.DefaultCampaignChannel
	}
	return channel[0]
}

// WrapChannel re-wraps the persisted scalar as the sequence shape callers
// expect on read: a single-element list, or an empty list when the stored
// value is empty.
func WrapChannel(channel string) []string {
	if channel == "" {
		return []string{}
	}
	return []string{channel}
}

// EncodeList serializes a string sequence to its stored text form.
// A nil sequence encodes as the empty-sequence text.
func EncodeList(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// ParseListOrDefault parses a stored sequence text back into a string
// slice. Besides the canonical JSON form it tolerates the single-quoted
// bracket form found in rows written by earlier versions of the system.
// Empty input and any parse failure silently yield def; corruption never
// surfaces to the caller.
func ParseListOrDefault(text string, def []string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return def
	}

	var out []string
	if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
		if out == nil {
			out = []string{}
		}
		return out
	}

	if parsed, ok := parseQuotedList(trimmed); ok {
		return parsed
	}

	return def
}

// parseQuotedList handles bracketed lists of single- or double-quoted
// strings, e.g. ['Fulton', 'DeKalb'].
func parseQuotedList(text string) ([]string, bool) {
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil, false
	}

	inner := strings.TrimSpace(text[1 : len(text)-1])
	if inner == "" {
		return []string{}, true
	}

	out := []string{}
	i := 0
	for i < len(inner) {
		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t') {
			i++
		}
		if i >= len(inner) {
			return nil, false
		}

		quote := inner[i]
		if quote != '\'' && quote != '"' {
			return nil, false
		}
		i++

		var sb strings.Builder
		closed := false
		for i < len(inner) {
			ch := inner[i]
			if ch == '\\' && i+1 < len(inner) {
				sb.WriteByte(inner[i+1])
				i += 2
				continue
			}
			if ch == quote {
				closed = true
				i++
				break
			}
			sb.WriteByte(ch)
			i++
		}
		if !closed {
			return nil, false
		}
		out = append(out, sb.String())

		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t') {
			i++
		}
		if i < len(inner) {
			if inner[i] != ',' {
				return nil, false
			}
			i++
		}
	}

	return out, true
}

// ParseOptionalInt converts an optional numeric string. Absent or
// empty-after-trim input yields nil; a non-numeric string is an error.
func ParseOptionalInt(s *string) (*int, error) {
	if s == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, ErrInvalidNumericValue
	}
	return &v, nil
}

// ParseOptionalFloat converts an optional numeric string following the
// same absent/empty rules as ParseOptionalInt.
func ParseOptionalFloat(s *string) (*float64, error) {
	if s == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, ErrInvalidNumericValue
	}
	return &v, nil
}

// ParseOptionalDecimal converts an optional money string to a nullable
// decimal column value.
func ParseOptionalDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return decimal.NullDecimal{}, nil
	}

	v, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.NullDecimal{}, ErrInvalidNumericValue
	}
	return decimal.NullDecimal{Decimal: v, Valid: true}, nil
}

// ParseRequiredDecimal converts a mandatory money string
func ParseRequiredDecimal(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Decimal{}, ErrInvalidNumericValue
	}

	v, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidNumericValue
	}
	return v, nil
}

// ParseOptionalTime converts an optional RFC3339 timestamp string
func ParseOptionalTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return nil, ErrInvalidTimestamp
	}
	utc := t.UTC()
	return &utc, nil
}

// FormatNullDecimal renders a nullable decimal as its string form for
// response payloads, nil when the column is null
func FormatNullDecimal(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

// FormatOptionalTime renders an optional timestamp as RFC3339
func FormatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
