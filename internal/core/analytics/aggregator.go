package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Summarize totals the points overall and inside rng. topN limits the
// best-seller list; ties rank by item name.
func Summarize(points []SalePoint, rng DateRange, topN int) Summary {
	totals := make(map[string]*itemAcc)
	var order []string
	grand := decimal.Zero
	period := decimal.Zero
	periodEntries := 0

	for _, p := range points {
		q := decimal.NewFromFloat(p.Quantity)
		grand = grand.Add(q)

		acc, ok := totals[p.Item]
		if !ok {
			acc = &itemAcc{}
			totals[p.Item] = acc
			order = append(order, p.Item)
		}
		acc.qty = acc.qty.Add(q)
		acc.entries++

		if rng.Contains(p.At) {
			period = period.Add(q)
			periodEntries++
		}
	}

	ranked := make([]ItemTotal, 0, len(order))
	for _, item := range order {
		acc := totals[item]
		ranked = append(ranked, ItemTotal{Item: item, Quantity: acc.qty.InexactFloat64(), Entries: acc.entries})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].Item < ranked[j].Item
	})

	summary := Summary{
		TotalQuantity:  grand.InexactFloat64(),
		EntryCount:     len(points),
		DistinctItems:  len(order),
		Range:          rng,
		PeriodEntries:  periodEntries,
		PeriodQuantity: period.InexactFloat64(),
		TopItems:       ranked,
	}
	if len(ranked) > 0 {
		summary.TopItem = ranked[0].Item
	}
	if topN > 0 && len(summary.TopItems) > topN {
		summary.TopItems = summary.TopItems[:topN]
	}
	return summary
}

type itemAcc struct {
	qty     decimal.Decimal
	entries int
}
