package entity

// Stats holds the aggregate totals over a set of transactions
type Stats struct {
	TotalBalance  float64 `json:"totalBalance"`
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Count         int     `json:"count"`
}

// ComputeStats sums incomes and expenses over txs. An empty slice yields zero stats.
func ComputeStats(txs []*Transaction) Stats {
	var stats Stats
	for _, tx := range txs {
		switch tx.Type {
		case TypeIncome:
			stats.TotalIncome += tx.Amount
		case TypeExpense:
			stats.TotalExpenses += tx.Amount
		}
	}

	stats.TotalIncome = RoundAmount(stats.TotalIncome)
	stats.TotalExpenses = RoundAmount(stats.TotalExpenses)
	stats.TotalBalance = RoundAmount(stats.TotalIncome - stats.TotalExpenses)
	stats.Count = len(txs)

	return stats
}
