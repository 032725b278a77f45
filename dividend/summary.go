package dividend

// FirstPerPeriod returns the first record of every non-empty period, keyed by label
func FirstPerPeriod(periods Periods) map[string]Record {
	out := make(map[string]Record, len(periods))
	for _, p := range periods {
		if len(p.Records) > 0 {
			out[p.Label] = p.Records[0]
		}
	}
	return out
}

// Counts returns the number of records per period label
func Counts(periods Periods) map[string]int {
	out := make(map[string]int, len(periods))
	for _, p := range periods {
		out[p.Label] = len(p.Records)
	}
	return out
}
