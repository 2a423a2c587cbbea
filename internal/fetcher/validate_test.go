package fetcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	good := map[Kind]RawResponse{
		KindIncome:   {"annualReports": []any{}},
		KindBalance:  {"annualReports": []any{map[string]any{"fiscalDateEnding": "2023-12-31"}}},
		KindCash:     {"annualReports": []any{}, "symbol": "X"},
		KindOverview: {"Symbol": "X"},
		KindPrice:    {"Time Series (Daily)": map[string]any{}},
	}

	for _, kind := range Kinds() {
		t.Run(string(kind)+"/pass", func(t *testing.T) {
			assert.NoError(t, Validate(kind, good[kind]))
		})

		t.Run(string(kind)+"/missing key", func(t *testing.T) {
			payload := RawResponse{"Note": "rate limited", "symbol": "X"}
			err := Validate(kind, payload)
			require.Error(t, err)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, ErrorTypeValidation, fe.Type)
			assert.Equal(t, kind, fe.Kind)
			assert.Equal(t, payload, fe.Payload)
			assert.False(t, fe.IsTransport())
			assert.Contains(t, fe.Error(), kind.RequiredKey())
		})

		t.Run(string(kind)+"/nil", func(t *testing.T) {
			assert.Error(t, Validate(kind, nil))
		})
	}
}

func TestValidate_NoCrossCredit(t *testing.T) {
	// A perfectly good overview is still not a valid statement, and vice versa.
	assert.Error(t, Validate(KindIncome, RawResponse{"Symbol": "X"}))
	assert.Error(t, Validate(KindOverview, RawResponse{"annualReports": []any{}}))
	assert.Error(t, Validate(KindPrice, RawResponse{"Time Series (Weekly)": map[string]any{}}))
}

func TestValidate_UnknownKind(t *testing.T) {
	assert.Error(t, Validate(Kind("dividends"), RawResponse{"annualReports": []any{}}))
}

func TestUpstreamNotice(t *testing.T) {
	assert.Equal(t, "slow down", UpstreamNotice(RawResponse{"Note": "slow down"}))
	assert.Equal(t, "premium", UpstreamNotice(RawResponse{"Information": "premium"}))
	assert.Equal(t, "bad call", UpstreamNotice(RawResponse{"Error Message": "bad call"}))
	assert.Empty(t, UpstreamNotice(RawResponse{"Symbol": "X"}))
	assert.Empty(t, UpstreamNotice(nil))
}
