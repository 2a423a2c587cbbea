package testutil

import (
	"fmt"

	"github.com/goccy/go-json"

	"valueanalyzer/internal/fetcher"
)

// Alpha Vantage style bodies for a fictional ticker. Statements are newest-first
// and numeric cells are strings, the way the upstream API sends them.

// IncomeJSON has two annual reports; the latest matches the ratio scenario
// (netIncome 50, totalRevenue 200, grossProfit 80).
const IncomeJSON = `{
	"symbol": "ACME",
	"annualReports": [
		{"fiscalDateEnding": "2023-12-31", "reportedCurrency": "USD", "totalRevenue": "200", "grossProfit": "80", "netIncome": "50", "operatingIncome": "None"},
		{"fiscalDateEnding": "2022-12-31", "reportedCurrency": "USD", "totalRevenue": "180", "grossProfit": "70", "netIncome": "40", "operatingIncome": "55"}
	],
	"quarterlyReports": []
}`

// BalanceJSON's latest report matches the ratio scenario.
const BalanceJSON = `{
	"symbol": "ACME",
	"annualReports": [
		{"fiscalDateEnding": "2023-12-31", "reportedCurrency": "USD", "totalAssets": "750", "totalLiabilities": "500", "totalShareholderEquity": "250", "totalCurrentAssets": "300", "totalCurrentLiabilities": "100"},
		{"fiscalDateEnding": "2022-12-31", "reportedCurrency": "USD", "totalAssets": "700", "totalLiabilities": "480", "totalShareholderEquity": "220", "totalCurrentAssets": "280", "totalCurrentLiabilities": "120"}
	]
}`

// CashJSON is a minimal cash flow statement.
const CashJSON = `{
	"symbol": "ACME",
	"annualReports": [
		{"fiscalDateEnding": "2023-12-31", "reportedCurrency": "USD", "operatingCashflow": "90", "capitalExpenditures": "30"}
	]
}`

// OverviewJSON carries a missing PERatio ("None") and numeric EPS.
const OverviewJSON = `{
	"Symbol": "ACME",
	"Name": "Acme Corporation",
	"Sector": "INDUSTRIALS",
	"MarketCapitalization": "2850000000",
	"PERatio": "None",
	"PriceToBookRatio": "1.2",
	"EPS": "1.23",
	"DividendYield": "0.015"
}`

// PriceJSON has three trading days.
const PriceJSON = `{
	"Meta Data": {"1. Information": "Daily Prices", "2. Symbol": "ACME"},
	"Time Series (Daily)": {
		"2024-01-03": {"1. open": "11.0", "2. high": "12.5", "3. low": "10.5", "4. close": "12.0", "5. volume": "1200"},
		"2024-01-02": {"1. open": "10.0", "2. high": "11.5", "3. low": "9.5", "4. close": "11.0", "5. volume": "1000"},
		"2023-12-29": {"1. open": "9.0", "2. high": "10.5", "3. low": "8.5", "4. close": "10.0", "5. volume": "900"}
	}
}`

// RateLimitJSON is what the API answers with HTTP 200 once the quota is spent.
const RateLimitJSON = `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`

// Bodies returns the canonical JSON body for each kind.
func Bodies() map[fetcher.Kind]string {
	return map[fetcher.Kind]string{
		fetcher.KindIncome:   IncomeJSON,
		fetcher.KindBalance:  BalanceJSON,
		fetcher.KindCash:     CashJSON,
		fetcher.KindOverview: OverviewJSON,
		fetcher.KindPrice:    PriceJSON,
	}
}

// Raw decodes body into a RawResponse and panics on malformed fixtures.
func Raw(body string) fetcher.RawResponse {
	var raw fetcher.RawResponse
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		panic(fmt.Sprintf("testutil: bad fixture: %v", err))
	}
	return raw
}

// Responses returns the decoded canonical fixtures for every kind.
func Responses() map[fetcher.Kind]fetcher.RawResponse {
	out := make(map[fetcher.Kind]fetcher.RawResponse, 5)
	for k, body := range Bodies() {
		out[k] = Raw(body)
	}
	return out
}

// Outcomes returns successful outcomes for every kind built from the fixtures.
func Outcomes() fetcher.Outcomes {
	out := make(fetcher.Outcomes, 5)
	for k, raw := range Responses() {
		out[k] = fetcher.Outcome{Kind: k, Response: raw}
	}
	return out
}
