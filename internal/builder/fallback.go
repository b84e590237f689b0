package builder

import (
	"math"

	"github.com/yyyfor/stock-master/internal/model"
)

// hkdPerUSD converts Hong Kong dollar market caps to USD billions.
const hkdPerUSD = 7.8

// fallbackFundamentals holds curated per-company financials used when
// no live provider can supply a metric. Values are periodically
// refreshed by hand from annual reports.
var fallbackFundamentals = map[string]model.Fundamentals{
	"tencent": {
		ROE: model.Float(13.8), ROA: model.Float(6.8),
		GrossMargin: model.Float(48.5), OpMargin: model.Float(28.5), NetMargin: model.Float(26.2),
		RevenueGrowth: model.Float(8.5), EarningsGrowth: model.Float(28.5),
		RevenueBillion: model.Float(620.5), DebtEquity: model.Float(0.08),
		CashBillion: model.Float(95), NetCashBillion: model.Float(72), FCFBillion: model.Float(42.8),
		PSRatio: model.Float(5.1), DividendYield: model.Float(0.8),
		Beta: model.Float(0.32), EPS: model.Float(11.2),
	},
	"baidu": {
		ROE: model.Float(9.2), ROA: model.Float(5.4),
		GrossMargin: model.Float(45.2), OpMargin: model.Float(19.8), NetMargin: model.Float(18.5),
		RevenueGrowth: model.Float(9.2), EarningsGrowth: model.Float(42.3),
		RevenueBillion: model.Float(185.3), DebtEquity: model.Float(0.35),
		CashBillion: model.Float(28), NetCashBillion: model.Float(15), FCFBillion: model.Float(6.2),
		PSRatio: model.Float(2.1), DividendYield: model.Float(0.6),
		Beta: model.Float(0.65), EPS: model.Float(13.8),
	},
	"jd": {
		ROE: model.Float(8.4), ROA: model.Float(3.8),
		GrossMargin: model.Float(15.8), OpMargin: model.Float(2.5), NetMargin: model.Float(2.3),
		RevenueGrowth: model.Float(7.8), EarningsGrowth: model.Float(35.8),
		RevenueBillion: model.Float(1150.2), DebtEquity: model.Float(0.18),
		CashBillion: model.Float(42), NetCashBillion: model.Float(28), FCFBillion: model.Float(8.5),
		PSRatio: model.Float(0.5), DividendYield: model.Float(1.2),
		Beta: model.Float(0.48), EPS: model.Float(12.8),
	},
	"alibaba": {
		ROE: model.Float(11.4), ROA: model.Float(5.3),
		GrossMargin: model.Float(40.0), OpMargin: model.Float(14.0), NetMargin: model.Float(13.1),
		RevenueGrowth: model.Float(6.6), EarningsGrowth: model.Float(273.2),
		RevenueBillion: model.Float(996.4), DebtEquity: model.Float(0.23),
		CashBillion: model.Float(55), NetCashBillion: model.Float(18), FCFBillion: model.Float(19.0),
		PSRatio: model.Float(1.9), DividendYield: model.Float(0.9),
		Beta: model.Float(0.21), EPS: model.Float(9.2),
	},
	"xiaomi": {
		ROE: model.Float(17.4), ROA: model.Float(4.8),
		GrossMargin: model.Float(21.6), OpMargin: model.Float(8.6), NetMargin: model.Float(8.7),
		RevenueGrowth: model.Float(30.5), EarningsGrowth: model.Float(133.5),
		RevenueBillion: model.Float(428.8), DebtEquity: model.Float(0.11),
		CashBillion: model.Float(14), NetCashBillion: model.Float(11), FCFBillion: model.Float(59.3),
		PSRatio: model.Float(3.1), DividendYield: model.Float(0.1),
		Beta: model.Float(1.01), EPS: model.Float(1.0),
	},
	"meituan": {
		ROE: model.Float(17.1), ROA: model.Float(5.2),
		GrossMargin: model.Float(26.0), OpMargin: model.Float(4.2), NetMargin: model.Float(2.4),
		RevenueGrowth: model.Float(16.7), EarningsGrowth: model.Float(57.2),
		RevenueBillion: model.Float(395.2), DebtEquity: model.Float(0.28),
		CashBillion: model.Float(13), NetCashBillion: model.Float(4), FCFBillion: model.Float(5.1),
		PSRatio: model.Float(1.6), DividendYield: model.Float(0.0),
		Beta: model.Float(1.15), EPS: model.Float(5.0),
	},
}

// estimateValuation derives market cap and valuation ratios from the
// live price and the curated share count, used when no provider
// supplies them. Ratios degrade to conventional defaults when the
// fallback financials lack the inputs.
func estimateValuation(price float64, company Company) (mcapHKDBillion, mcapUSDBillion float64, f model.Fundamentals) {
	shares := company.SharesBillion
	if shares <= 0 {
		shares = 10
	}
	mcapHKDBillion = price * shares
	mcapUSDBillion = mcapHKDBillion / hkdPerUSD

	base := fallbackFundamentals[company.Key]

	var earningsBillion float64
	if base.RevenueBillion != nil && base.NetMargin != nil {
		earningsBillion = *base.RevenueBillion * (*base.NetMargin / 100)
	}
	peRatio := 15.0
	if earningsBillion > 0 {
		peRatio = mcapUSDBillion / earningsBillion
	}

	bookValueBillion := mcapUSDBillion / 2
	if base.ROE != nil && *base.ROE > 0 && earningsBillion > 0 {
		bookValueBillion = earningsBillion / (*base.ROE / 100)
	}
	pbRatio := 2.0
	if bookValueBillion > 0 {
		pbRatio = mcapUSDBillion / bookValueBillion
	}

	pegRatio := 1.0
	if base.EarningsGrowth != nil && *base.EarningsGrowth > 0 {
		pegRatio = peRatio / *base.EarningsGrowth * 100
	}

	f = model.Fundamentals{
		PERatio:  model.Float(round1(peRatio)),
		PBRatio:  model.Float(round1(pbRatio)),
		PEGRatio: model.Float(pegRatio),
		EVEbitda: model.Float(peRatio * 0.8),
	}
	if base.PSRatio != nil {
		f.PSRatio = base.PSRatio
	} else {
		f.PSRatio = model.Float(2.0)
	}
	return mcapHKDBillion, mcapUSDBillion, f
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
