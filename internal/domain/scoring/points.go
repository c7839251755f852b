package scoring

import "github.com/thehubfc/prediction-league/internal/domain/round"

// Base points for a correct pick.
const basePoints = 3

// Points returns the points earned by a single pick.
//
// In regular rounds the banker doubles the stake: a correct banker pick
// doubles the reward, a wrong one costs the same amount. Match of the
// week doubles whatever a correct pick is worth but never punishes a
// miss. The two multipliers stack.
//
// Standalone rounds ignore both flags: a correct pick is worth the base
// and a miss is worth nothing.
func Points(correct, banker, matchOfWeek bool, typ round.Type) int {
	if typ == round.TypeStandalone {
		if correct {
			return basePoints
		}
		return 0
	}

	if correct {
		pts := basePoints
		if banker {
			pts *= 2
		}
		if matchOfWeek {
			pts *= 2
		}
		return pts
	}

	if !banker {
		return 0
	}
	pts := -basePoints
	if matchOfWeek {
		pts *= 2
	}
	return pts
}
