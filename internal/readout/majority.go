package readout

import (
	"fmt"

	"snnverify/internal/verr"
)

// Resolve returns the most frequent value in the readings and how often it
// occurred. Negative readings are the sentinel for inhibited replicas and
// are discarded first when dropNegatives is set. At most two distinct values
// may remain, one alive and one shared dead value; a third is a modeling
// error. Ties break by order of first occurrence in the input, never by
// numeric ordering.
func Resolve(values []float64, dropNegatives bool) (float64, int, error) {
	kept := values
	if dropNegatives {
		kept = make([]float64, 0, len(values))
		for _, value := range values {
			if value >= 0 {
				kept = append(kept, value)
			}
		}
	}
	if len(kept) == 0 {
		return 0, 0, fmt.Errorf("no readings left to resolve a majority from")
	}

	occurrences := make(map[float64]int, 2)
	order := make([]float64, 0, 2)
	for _, value := range kept {
		if _, seen := occurrences[value]; !seen {
			order = append(order, value)
		}
		occurrences[value]++
	}

	if len(order) > 2 {
		return 0, 0, &verr.ConsistencyError{
			Reason: fmt.Sprintf("the node count contains more than 2 different values; only a valid and an invalid value for died neurons may exist, found: %v", kept),
		}
	}

	majority := order[0]
	for _, value := range order[1:] {
		if occurrences[value] > occurrences[majority] {
			majority = value
		}
	}
	return majority, occurrences[majority], nil
}
