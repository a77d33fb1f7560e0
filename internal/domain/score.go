package domain

// Weighted scoring constants per difficulty tier.
const (
	PointsEasy   = 1
	PointsMedium = 3
	PointsHard   = 6
)

// ComputeTodayPoints returns the weighted score earned since the previous
// snapshot. Each tier's delta is clamped to zero independently before
// weighting, so an upstream decrease in one tier (a profile reset) can
// neither go negative nor offset a genuine increase elsewhere. The sum is
// clamped once more as a final guard.
//
// With no previous snapshot this is the user's first-ever sync: the fetched
// totals become the baseline and no historical credit is given.
func ComputeTodayPoints(curr *LeetCodeStats, prev *DailyStat) int {
	if prev == nil {
		return 0
	}
	points := clampZero(curr.Easy-prev.Easy)*PointsEasy +
		clampZero(curr.Medium-prev.Medium)*PointsMedium +
		clampZero(curr.Hard-prev.Hard)*PointsHard
	return clampZero(points)
}

// TotalScore is the all-time weighted score derived from cumulative counters.
func TotalScore(easy, medium, hard int) int {
	return easy*PointsEasy + medium*PointsMedium + hard*PointsHard
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
