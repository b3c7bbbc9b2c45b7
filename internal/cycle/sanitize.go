package cycle

import "CycleSentinel/internal/model"

// SanitizePoints drops detected points that would form an impossible leg.
// A pair is invalid when both points share a kind, when a trough→peak move
// does not actually rise, or when a peak→trough move does not actually
// fall. The scanner's local test can fire on a secondary bounce that is
// extreme in its window yet inconsistent with the leg it would create;
// such points are filtered structurally instead of tuning thresholds
// per asset. The later point of an invalid pair is marked, and marks
// spread through re-paired neighbours in a single left-to-right pass.
// The anchor is never removed.
func SanitizePoints(anchor *model.CyclePoint, detected []model.CyclePoint) []model.CyclePoint {
	if len(detected) == 0 {
		return detected
	}

	offset := 0
	pts := make([]model.CyclePoint, 0, len(detected)+1)
	if anchor != nil {
		pts = append(pts, *anchor)
		offset = 1
	}
	pts = append(pts, detected...)

	marked := make([]bool, len(pts))
	for i := 0; i+1 < len(pts); i++ {
		if invalidPair(pts[i], pts[i+1]) {
			marked[i+1] = true
		}
	}

	// Removing a point re-pairs its neighbours, so marks propagate: one
	// in-place pass reaches one hop left and the rest of the right side,
	// which is all that left-to-right leg construction can see.
	for i := 0; i+1 < len(pts); i++ {
		if marked[i] || marked[i+1] {
			marked[i] = true
			marked[i+1] = true
		}
	}
	if offset == 1 {
		marked[0] = false
	}

	kept := make([]model.CyclePoint, 0, len(detected))
	for i := offset; i < len(pts); i++ {
		if !marked[i] {
			kept = append(kept, pts[i])
		}
	}
	return kept
}

func invalidPair(from, to model.CyclePoint) bool {
	if from.Kind == to.Kind {
		return true
	}
	if from.Kind == model.Trough {
		return to.Price <= from.Price // nominal bull leg must rise
	}
	return to.Price >= from.Price // nominal bear leg must fall
}
