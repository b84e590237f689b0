package builder

import (
	"sort"

	"github.com/yyyfor/stock-master/internal/model"
)

// mergeFundamentals fills each metric from the live provider data
// first and the fallback table second. It returns the merged set and
// the sorted names of fields that came from the fallback.
func mergeFundamentals(fallback, live *model.Fundamentals) (*model.Fundamentals, []string) {
	merged := &model.Fundamentals{}
	if live != nil {
		merged.Symbol = live.Symbol
	}

	var estimated []string
	pick := func(name string, dst **float64, liveV, fallV *float64) {
		switch {
		case liveV != nil:
			*dst = liveV
		case fallV != nil:
			*dst = fallV
			estimated = append(estimated, name)
		}
	}

	var l model.Fundamentals
	if live != nil {
		l = *live
	}
	var f model.Fundamentals
	if fallback != nil {
		f = *fallback
	}

	pick("pe_ratio", &merged.PERatio, l.PERatio, f.PERatio)
	pick("pb_ratio", &merged.PBRatio, l.PBRatio, f.PBRatio)
	pick("ps_ratio", &merged.PSRatio, l.PSRatio, f.PSRatio)
	pick("peg_ratio", &merged.PEGRatio, l.PEGRatio, f.PEGRatio)
	pick("ev_ebitda", &merged.EVEbitda, l.EVEbitda, f.EVEbitda)
	pick("roe", &merged.ROE, l.ROE, f.ROE)
	pick("roa", &merged.ROA, l.ROA, f.ROA)
	pick("gross_margin", &merged.GrossMargin, l.GrossMargin, f.GrossMargin)
	pick("op_margin", &merged.OpMargin, l.OpMargin, f.OpMargin)
	pick("net_margin", &merged.NetMargin, l.NetMargin, f.NetMargin)
	pick("revenue_growth", &merged.RevenueGrowth, l.RevenueGrowth, f.RevenueGrowth)
	pick("earnings_growth", &merged.EarningsGrowth, l.EarningsGrowth, f.EarningsGrowth)
	pick("debt_equity", &merged.DebtEquity, l.DebtEquity, f.DebtEquity)
	pick("revenue_billion", &merged.RevenueBillion, l.RevenueBillion, f.RevenueBillion)
	pick("cash_billion", &merged.CashBillion, l.CashBillion, f.CashBillion)
	pick("net_cash_billion", &merged.NetCashBillion, l.NetCashBillion, f.NetCashBillion)
	pick("fcf_billion", &merged.FCFBillion, l.FCFBillion, f.FCFBillion)
	pick("dividend_yield", &merged.DividendYield, l.DividendYield, f.DividendYield)
	pick("beta", &merged.Beta, l.Beta, f.Beta)
	pick("eps", &merged.EPS, l.EPS, f.EPS)
	pick("shares_outstanding", &merged.SharesOutstanding, l.SharesOutstanding, f.SharesOutstanding)

	sort.Strings(estimated)
	return merged, estimated
}
