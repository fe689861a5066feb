package parallel

// Band is a half-open row range [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// SplitRows divides [y0, y1) into at most parts contiguous bands of at
// least minRows rows each. Bands are returned top to bottom and together
// cover the range exactly once.
func SplitRows(y0, y1, parts, minRows int) []Band {
	total := y1 - y0
	if total <= 0 {
		return nil
	}
	if minRows < 1 {
		minRows = 1
	}
	if parts < 1 {
		parts = 1
	}
	if maxParts := total / minRows; parts > maxParts {
		parts = max(maxParts, 1)
	}

	bands := make([]Band, 0, parts)
	base, extra := total/parts, total%parts
	y := y0
	for i := range parts {
		n := base
		if i < extra {
			n++
		}
		bands = append(bands, Band{Y0: y, Y1: y + n})
		y += n
	}
	return bands
}

// ForRows calls fn once per band of [y0, y1). With a nil or closed pool,
// or a range too small to split, fn runs serially on the caller.
func ForRows(p *WorkerPool, y0, y1, minRows int, fn func(Band)) {
	parts := 1
	if p != nil && p.IsRunning() {
		parts = p.Workers()
	}
	bands := SplitRows(y0, y1, parts, minRows)
	if len(bands) <= 1 {
		for _, b := range bands {
			fn(b)
		}
		return
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}
