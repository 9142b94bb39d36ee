package formalize

const msPerSecond = 1000

// OverheadReport summarizes per-site differences between variants. A nil entry means no site
// had the values needed for that series.
type OverheadReport struct {
	Sites              int
	IDSAfterMS         *Stats
	IDSPureMS          *Stats
	CompressionAfterMS *Stats
	CompressionPureMS  *Stats
	PressRateBefore    *Stats
	PressRateAfter     *Stats
}

type readingFunc func(record MetricRecord) (float64, bool)

func idsSeconds(record MetricRecord) (float64, bool) {
	if record.IDS == nil {
		return 0, false
	}
	return record.IDS.Value, true
}

func compressionSeconds(record MetricRecord) (float64, bool) {
	if record.Compression == nil {
		return 0, false
	}
	return record.Compression.Time.Value, true
}

func pressRate(record MetricRecord) (float64, bool) {
	if record.Compression == nil {
		return 0, false
	}
	return record.Compression.PressRate, true
}

func statsOrNil(series []float64) *Stats {
	if len(series) == 0 {
		return nil
	}
	return getF64Stats(series)
}

// deltaMSSeries collects variant - before in milliseconds, over baseline sites where both
// readings exist.
func deltaMSSeries(before, variant *ParsedLog, read readingFunc) []float64 {
	ret := []float64{}

	for _, site := range before.keys {
		beforeRecord, _ := before.Get(site)
		variantRecord, ok := variant.Get(site)
		if !ok {
			continue
		}

		beforeValue, ok := read(beforeRecord)
		if !ok {
			continue
		}
		variantValue, ok := read(variantRecord)
		if !ok {
			continue
		}

		ret = append(ret, (variantValue-beforeValue)*msPerSecond)
	}

	return ret
}

func valueSeries(parsed *ParsedLog, read readingFunc) []float64 {
	ret := []float64{}

	for _, site := range parsed.keys {
		record, _ := parsed.Get(site)
		if value, ok := read(record); ok {
			ret = append(ret, value)
		}
	}

	return ret
}

// SummarizeOverhead compares the treatment and reference logs against the baseline.
func SummarizeOverhead(before, after, pure *ParsedLog) *OverheadReport {
	return &OverheadReport{
		Sites:              before.Len(),
		IDSAfterMS:         statsOrNil(deltaMSSeries(before, after, idsSeconds)),
		IDSPureMS:          statsOrNil(deltaMSSeries(before, pure, idsSeconds)),
		CompressionAfterMS: statsOrNil(deltaMSSeries(before, after, compressionSeconds)),
		CompressionPureMS:  statsOrNil(deltaMSSeries(before, pure, compressionSeconds)),
		PressRateBefore:    statsOrNil(valueSeries(before, pressRate)),
		PressRateAfter:     statsOrNil(valueSeries(after, pressRate)),
	}
}
