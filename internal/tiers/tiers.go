// Package tiers holds the static catalog of credit-limit boost options.
// Each tier is identified by the limit it unlocks and priced by the fee
// charged to unlock it.
package tiers

import "strconv"

// Money is an amount in whole Kenyan shillings.
type Money = int64

type TierOption struct {
	Amount Money `json:"amount"`
	Fee    Money `json:"fee"`
}

// Catalog is ordered by strictly increasing Amount and never mutated at
// runtime.
var Catalog = []TierOption{
	{Amount: 5000, Fee: 51},
	{Amount: 10000, Fee: 159},
	{Amount: 19000, Fee: 260},
	{Amount: 32000, Fee: 620},
	{Amount: 44000, Fee: 770},
	{Amount: 53000, Fee: 990},
	{Amount: 62000, Fee: 1139},
	{Amount: 75000, Fee: 1800},
}

// ByAmount looks a tier up by its limit amount.
func ByAmount(catalog []TierOption, amount Money) (TierOption, bool) {
	for _, opt := range catalog {
		if opt.Amount == amount {
			return opt, true
		}
	}
	return TierOption{}, false
}

// FormatKsh renders an amount like "Ksh 10,000".
func FormatKsh(amount Money) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var grouped []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}

	if neg {
		return "Ksh -" + string(grouped)
	}
	return "Ksh " + string(grouped)
}
