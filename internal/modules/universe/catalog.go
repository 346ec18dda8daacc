// Package universe manages the candidate universe: the catalog of tradable
// tickers, their one-year close series, and the immutable snapshots served
// to analysis requests.
package universe

// CatalogEntry identifies one candidate before its series is loaded.
type CatalogEntry struct {
	Symbol string
	Name   string
	Sector string
}

// DefaultCatalog covers every sector the regime classifier can tilt into, so
// a filtered universe is never empty by construction.
var DefaultCatalog = []CatalogEntry{
	// Technology
	{Symbol: "AAPL", Name: "Apple Inc.", Sector: "Technology"},
	{Symbol: "MSFT", Name: "Microsoft Corp.", Sector: "Technology"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Sector: "Technology"},
	{Symbol: "NVDA", Name: "NVIDIA Corp.", Sector: "Technology"},

	// Semiconductors
	{Symbol: "AMD", Name: "Advanced Micro Devices", Sector: "Semiconductors"},
	{Symbol: "TSM", Name: "Taiwan Semiconductor", Sector: "Semiconductors"},

	// Crypto exposure
	{Symbol: "COIN", Name: "Coinbase Global", Sector: "Crypto"},
	{Symbol: "MSTR", Name: "MicroStrategy Inc.", Sector: "Crypto"},

	// Growth
	{Symbol: "TSLA", Name: "Tesla Inc.", Sector: "Growth"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Sector: "Growth"},

	// Gold
	{Symbol: "GLD", Name: "SPDR Gold Shares", Sector: "Gold"},
	{Symbol: "NEM", Name: "Newmont Corp.", Sector: "Gold"},

	// Utilities
	{Symbol: "XLU", Name: "Utilities Select Sector SPDR", Sector: "Utilities"},
	{Symbol: "NEE", Name: "NextEra Energy", Sector: "Utilities"},

	// Bonds
	{Symbol: "TLT", Name: "iShares 20+ Year Treasury Bond", Sector: "Bonds"},
	{Symbol: "AGG", Name: "iShares Core US Aggregate Bond", Sector: "Bonds"},

	// Consumer Staples
	{Symbol: "KO", Name: "Coca-Cola Co.", Sector: "Consumer Staples"},
	{Symbol: "PG", Name: "Procter & Gamble", Sector: "Consumer Staples"},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Sector: "Consumer Staples"},

	// Broad market
	{Symbol: "SPY", Name: "SPDR S&P 500 ETF", Sector: "S&P500"},
	{Symbol: "QQQ", Name: "Invesco QQQ Trust", Sector: "Diversified"},
	{Symbol: "DIA", Name: "SPDR Dow Jones Industrial", Sector: "Diversified"},
}
