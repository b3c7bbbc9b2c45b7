package streak

import (
	"sort"

	"CycleSentinel/internal/model"
)

// Detect splits the series into maximal runs of same-coloured candles.
// A doji (close equal to open) counts as green.
func Detect(bars []model.OHLCV) []model.Streak {
	if len(bars) == 0 {
		return nil
	}

	var streaks []model.Streak
	current := colorOf(bars[0])
	start := 0

	for i := 1; i <= len(bars); i++ {
		atEnd := i == len(bars)
		if !atEnd && colorOf(bars[i]) == current {
			continue
		}
		end := i - 1
		streaks = append(streaks, buildStreak(bars, current, start, end))
		if !atEnd {
			current = colorOf(bars[i])
			start = i
		}
	}
	return streaks
}

func colorOf(bar model.OHLCV) model.StreakType {
	if bar.Close >= bar.Open {
		return model.StreakGreen
	}
	return model.StreakRed
}

func buildStreak(bars []model.OHLCV, t model.StreakType, start, end int) model.Streak {
	startPrice := bars[start].Open
	endPrice := bars[end].Close
	pct := 0.0
	if startPrice > 0 {
		pct = (endPrice - startPrice) / startPrice * 100
	}
	volume := 0.0
	for i := start; i <= end; i++ {
		volume += bars[i].Volume
	}
	return model.Streak{
		Type:               t,
		StartIndex:         start,
		EndIndex:           end,
		StartDate:          bars[start].Time,
		EndDate:            bars[end].Time,
		Length:             end - start + 1,
		TotalPercentChange: pct,
		AvgDailyVolume:     volume / float64(end-start+1),
	}
}

// Stats summarises streak history. Returns nil until the series has at
// least one run of each colour; a one-sided history has nothing to
// compare against.
func Stats(streaks []model.Streak) *model.StreakStats {
	if len(streaks) == 0 {
		return nil
	}

	var green, red []model.Streak
	for _, s := range streaks {
		if s.Type == model.StreakGreen {
			green = append(green, s)
		} else {
			red = append(red, s)
		}
	}
	if len(green) == 0 || len(red) == 0 {
		return nil
	}

	last := streaks[len(streaks)-1]
	stats := &model.StreakStats{
		LongestGreen:      longest(green),
		LongestRed:        longest(red),
		AvgGreenLength:    avgLength(green),
		AvgRedLength:      avgLength(red),
		TotalGreenDays:    totalDays(green),
		TotalRedDays:      totalDays(red),
		GreenDistribution: distribution(green),
		RedDistribution:   distribution(red),
		Current: model.CurrentStreak{
			Type:               last.Type,
			Length:             last.Length,
			StartDate:          last.StartDate,
			PercentChangeSoFar: last.TotalPercentChange,
		},
		TopGreen: top(green, 5),
		TopRed:   top(red, 5),
	}
	return stats
}

func longest(streaks []model.Streak) model.Streak {
	best := streaks[0]
	for _, s := range streaks[1:] {
		if s.Length > best.Length {
			best = s
		}
	}
	return best
}

func avgLength(streaks []model.Streak) float64 {
	return float64(totalDays(streaks)) / float64(len(streaks))
}

func totalDays(streaks []model.Streak) int {
	days := 0
	for _, s := range streaks {
		days += s.Length
	}
	return days
}

func distribution(streaks []model.Streak) map[int]int {
	dist := make(map[int]int)
	for _, s := range streaks {
		dist[s.Length]++
	}
	return dist
}

func top(streaks []model.Streak, n int) []model.Streak {
	sorted := make([]model.Streak, len(streaks))
	copy(sorted, streaks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Length > sorted[j].Length })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
