package models

// Tracked instrument symbols. Rule predicates and the regime
// classifier address the basket through these.
const (
	SymbolSPY = "SPY"
	SymbolQQQ = "QQQ"
	SymbolIWM = "IWM"
	SymbolTNX = "^TNX"
	SymbolTLT = "TLT"
	SymbolHYG = "HYG"
	SymbolVIX = "^VIX"
	SymbolDXY = "DX-Y.NYB"
	SymbolGLD = "GLD"
	SymbolBTC = "BTC-USD"
)

// TrackedSymbols maps every tracked symbol to its display name.
var TrackedSymbols = map[string]string{
	SymbolSPY: "S&P 500 ETF",
	SymbolQQQ: "Nasdaq-100 ETF",
	SymbolIWM: "Russell 2000 ETF",
	SymbolTNX: "10-Year Treasury Yield",
	SymbolTLT: "20+ Year Treasury ETF",
	SymbolHYG: "High Yield Corp Bond ETF",
	SymbolVIX: "Volatility Index",
	SymbolDXY: "US Dollar Index",
	SymbolGLD: "Gold ETF",
	SymbolBTC: "Bitcoin",
}
