package render

// Viewport scrolls a list taller than its panel.
type Viewport struct {
	Offset int
}

// EnsureVisible adjusts the offset so cursor stays within maxVisible rows of
// total. It returns the clamped cursor.
func (v *Viewport) EnsureVisible(cursor, total, maxVisible int) int {
	if total == 0 {
		v.Offset = 0
		return 0
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= total {
		cursor = total - 1
	}
	if maxVisible <= 0 {
		v.Offset = 0
		return cursor
	}
	maxOffset := total - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.Offset > maxOffset {
		v.Offset = maxOffset
	}
	if v.Offset < 0 {
		v.Offset = 0
	}
	if cursor < v.Offset {
		v.Offset = cursor
	}
	if upper := v.Offset + maxVisible - 1; cursor > upper {
		v.Offset = cursor - maxVisible + 1
		if v.Offset > maxOffset {
			v.Offset = maxOffset
		}
	}
	return cursor
}

// Window returns the half-open row range currently visible.
func (v *Viewport) Window(total, maxVisible int) (start, end int) {
	start = v.Offset
	if start > total {
		start = total
	}
	end = total
	if maxVisible > 0 && start+maxVisible < end {
		end = start + maxVisible
	}
	return start, end
}
