package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"CycleSentinel/internal/model"
)

func price(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

func phaseLabel(p model.Phase) string {
	if p == model.PhaseBull {
		return "🟢 BULL"
	}
	return "🔴 BEAR"
}

// FormatCycleReport renders the full cycle picture for one asset.
func FormatCycleReport(asset string, a *model.CycleAnalysis, asOf time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔄 <b>%s Cycle Report</b> | %s\n\n", asset, asOf.Format("2006-01-02")))

	if a == nil || len(a.AllPoints) == 0 {
		b.WriteString("Not enough history for cycle analysis yet.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Phase: %s (%.0f%% of a typical run)\n", phaseLabel(a.CurrentPhase), a.PhaseProgress*100))
	if a.CurrentPeak != nil {
		b.WriteString(fmt.Sprintf("Last peak: $%s on %s (%d days ago)\n",
			price(a.CurrentPeak.Price), a.CurrentPeak.Date.Format("2006-01-02"), a.DaysSincePeak))
	}
	if a.CurrentTrough != nil {
		b.WriteString(fmt.Sprintf("Last trough: $%s on %s (%d days ago)\n",
			price(a.CurrentTrough.Price), a.CurrentTrough.Date.Format("2006-01-02"), a.DaysSinceTrough))
	}

	b.WriteString("\n📐 <b>Historical averages:</b>\n")
	b.WriteString(fmt.Sprintf("  Bull legs: %.0f days, median %+.0f%%\n", a.AvgBullDuration, a.MedianBullReturn))
	b.WriteString(fmt.Sprintf("  Bear legs: %.0f days, median %+.0f%%\n", a.AvgBearDuration, a.MedianBearDrawdown))

	if a.ProjectedTop != nil || a.ProjectedBottom != nil {
		b.WriteString("\n🔮 <b>Projections:</b>\n")
		if a.ProjectedTop != nil {
			b.WriteString("  Top: " + formatProjection(a.ProjectedTop) + "\n")
		}
		if a.ProjectedBottom != nil {
			b.WriteString("  Bottom: " + formatProjection(a.ProjectedBottom) + "\n")
		}
	}

	b.WriteString(fmt.Sprintf("\nTurning points on record: %d\n", len(a.AllPoints)))
	return b.String()
}

func formatProjection(p *model.Projection) string {
	when := fmt.Sprintf("in %d days", p.DaysUntil)
	if p.DaysUntil < 0 {
		when = fmt.Sprintf("%d days overdue", -p.DaysUntil)
	} else if p.DaysUntil == 0 {
		when = "today"
	}
	return fmt.Sprintf("%s (%s, %s confidence, %d cycles)",
		p.Date.Format("2006-01-02"), when, p.Confidence, p.BasedOnCycles)
}

// FormatPhaseAlert renders the one-line daily alert sent when the
// classified phase flips.
func FormatPhaseAlert(asset string, prev, next model.Phase, a *model.CycleAnalysis) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚠️ <b>%s phase change:</b> %s → %s\n", asset, phaseLabel(prev), phaseLabel(next)))
	if next == model.PhaseBear && a.CurrentPeak != nil {
		b.WriteString(fmt.Sprintf("Top behind us: $%s on %s\n",
			price(a.CurrentPeak.Price), a.CurrentPeak.Date.Format("2006-01-02")))
	}
	if next == model.PhaseBull && a.CurrentTrough != nil {
		b.WriteString(fmt.Sprintf("Bottom behind us: $%s on %s\n",
			price(a.CurrentTrough.Price), a.CurrentTrough.Date.Format("2006-01-02")))
	}
	return b.String()
}

// FormatMarketSnapshot renders the indicator summary.
func FormatMarketSnapshot(asset string, ind *model.MarketIndicators) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s Market Snapshot</b>\n\n", asset))
	b.WriteString(fmt.Sprintf("Price: $%s\n", price(ind.CurrentPrice)))

	dev200 := 0.0
	if ind.SMA200 > 0 {
		dev200 = (ind.CurrentPrice - ind.SMA200) / ind.SMA200 * 100
	}
	b.WriteString(fmt.Sprintf("SMA50: $%s | SMA200: $%s (%+.1f%%)\n", price(ind.SMA50), price(ind.SMA200), dev200))
	b.WriteString(fmt.Sprintf("RSI(14): %.1f | ATR(14): %s\n", ind.DailyRSI, price(ind.ATR14)))
	b.WriteString(fmt.Sprintf("Volatility(30d): %.1f%%\n", ind.Volatility30d))
	b.WriteString(fmt.Sprintf("Bollinger: %s / %s / %s\n", price(ind.BollLower), price(ind.BollMiddle), price(ind.BollUpper)))
	b.WriteString(fmt.Sprintf("52w range: $%s ~ $%s (at %.0f%%)\n", price(ind.Low52w), price(ind.High52w), ind.Position52w*100))
	b.WriteString(fmt.Sprintf("30d range: $%s ~ $%s\n", price(ind.Low30d), price(ind.High30d)))
	return b.String()
}

// FormatStreakReport renders the streak statistics.
func FormatStreakReport(asset string, stats *model.StreakStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🕯 <b>%s Streaks</b>\n\n", asset))
	if stats == nil {
		b.WriteString("Not enough two-sided history for streak stats yet.\n")
		return b.String()
	}

	cur := stats.Current
	b.WriteString(fmt.Sprintf("Current: %d %s day(s) since %s (%+.1f%%)\n\n",
		cur.Length, cur.Type, cur.StartDate.Format("2006-01-02"), cur.PercentChangeSoFar))
	b.WriteString(fmt.Sprintf("Longest green: %d days (%+.1f%%)\n", stats.LongestGreen.Length, stats.LongestGreen.TotalPercentChange))
	b.WriteString(fmt.Sprintf("Longest red: %d days (%+.1f%%)\n", stats.LongestRed.Length, stats.LongestRed.TotalPercentChange))
	b.WriteString(fmt.Sprintf("Average: %.1f green / %.1f red\n", stats.AvgGreenLength, stats.AvgRedLength))
	b.WriteString(fmt.Sprintf("Totals: %s green days, %s red days\n",
		humanize.Comma(int64(stats.TotalGreenDays)), humanize.Comma(int64(stats.TotalRedDays))))
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return strings.Join([]string{
		"<b>CycleSentinel commands</b>",
		"/report - full cycle report for every asset",
		"/cycle BTC - cycle report for one asset",
		"/market BTC - indicator snapshot",
		"/streak BTC - candle streak statistics",
		"/status - bot status",
		"/help - this message",
	}, "\n")
}
