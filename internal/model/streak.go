package model

import "time"

// StreakType colours a run of daily candles.
type StreakType string

const (
	StreakGreen StreakType = "green" // close >= open
	StreakRed   StreakType = "red"
)

// Streak is a maximal run of same-coloured daily candles.
type Streak struct {
	Type               StreakType
	StartIndex         int
	EndIndex           int
	StartDate          time.Time
	EndDate            time.Time
	Length             int
	TotalPercentChange float64 // first open to last close
	AvgDailyVolume     float64
}

// CurrentStreak describes the still-open run ending at the latest bar.
type CurrentStreak struct {
	Type               StreakType
	Length             int
	StartDate          time.Time
	PercentChangeSoFar float64
}

// StreakStats summarises the full streak history of a series.
type StreakStats struct {
	LongestGreen      Streak
	LongestRed        Streak
	AvgGreenLength    float64
	AvgRedLength      float64
	TotalGreenDays    int
	TotalRedDays      int
	GreenDistribution map[int]int // streak length -> occurrences
	RedDistribution   map[int]int
	Current           CurrentStreak
	TopGreen          []Streak // up to 5, longest first
	TopRed            []Streak
}
