package cycle

import (
	"time"

	"CycleSentinel/internal/model"
)

// Known historical cycle points per asset. Points older than exchange
// data carry hardcoded prices from public historical records; they are
// used for duration math even when no matching candle exists. The
// resolver snaps the rest onto real bars.
var knownPoints = map[string][]model.CyclePoint{
	"BTC": {
		kp(model.Trough, "2011-11-18", 2.05),  // post-first-bubble bottom
		kp(model.Peak, "2013-11-29", 1163),    // second bubble
		kp(model.Trough, "2015-01-14", 152),   // bear market bottom
		kp(model.Peak, "2017-12-17", 19783),   // ICO mania top
		kp(model.Trough, "2018-12-15", 3122),  // crypto winter
		kp(model.Peak, "2021-11-10", 68789),   // post-halving peak
		kp(model.Trough, "2022-11-21", 15460), // FTX collapse bottom
	},
	"ETH": {
		kp(model.Trough, "2015-10-21", 0.42), // early low
		kp(model.Peak, "2018-01-13", 1432),   // ICO mania top
		kp(model.Trough, "2018-12-15", 84),   // crypto winter
		kp(model.Peak, "2021-11-10", 4878),   // DeFi/NFT peak
		kp(model.Trough, "2022-06-18", 880),  // bear bottom
	},
}

func kp(kind model.PointKind, date string, price float64) model.CyclePoint {
	d, _ := time.Parse("2006-01-02", date)
	return model.CyclePoint{
		Kind:   kind,
		Date:   d,
		Price:  price,
		Index:  model.PreSeriesIndex,
		Source: model.SourceKnown,
	}
}

// KnownPoints returns a copy of the curated anchor list for the asset,
// in chronological order, or nil when none is defined.
func KnownPoints(asset string) []model.CyclePoint {
	pts, ok := knownPoints[asset]
	if !ok {
		return nil
	}
	out := make([]model.CyclePoint, len(pts))
	copy(out, pts)
	return out
}
