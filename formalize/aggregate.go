package formalize

type column map[SiteKey]Reading

// ComparisonTable is the wide before/after/pure table. Rows follow the baseline log's site
// order. Cells whose source log lacked the site or line kind are missing, not zero.
type ComparisonTable struct {
	rows    []SiteKey
	columns map[Metric]column
	orphans []SiteKey
}

// Rows returns the sites of the table in export order.
func (t *ComparisonTable) Rows() []SiteKey {
	return append([]SiteKey{}, t.rows...)
}

// Cell returns the value of metric for site, if any.
func (t *ComparisonTable) Cell(metric Metric, site SiteKey) (Reading, bool) {
	reading, ok := t.columns[metric][site]
	return reading, ok
}

// Orphans returns sites seen in the treatment or reference log but not in the baseline. Their
// cells are kept but they have no row.
func (t *ComparisonTable) Orphans() []SiteKey {
	return append([]SiteKey{}, t.orphans...)
}

type columnSet struct {
	ids         Metric
	compression Metric
	outputSize  Metric
	inputSize   Metric
}

func (t *ComparisonTable) fill(parsed *ParsedLog, columns columnSet) {
	for _, site := range parsed.keys {
		record := parsed.records[site]

		if record.IDS != nil {
			t.columns[columns.ids][site] = *record.IDS
		}

		if record.Compression == nil {
			continue
		}
		t.columns[columns.compression][site] = record.Compression.Time
		if columns.outputSize != "" {
			t.columns[columns.outputSize][site] = record.Compression.OutputSize
		}
		if columns.inputSize != "" {
			t.columns[columns.inputSize][site] = record.Compression.InputSize
		}
	}
}

// Aggregate pivots the three variant logs into one table. Input size is taken from the
// baseline only. Sites are never reconciled across logs.
func Aggregate(before, after, pure *ParsedLog) *ComparisonTable {
	ret := &ComparisonTable{
		rows:    before.Keys(),
		columns: map[Metric]column{},
		orphans: []SiteKey{},
	}
	for _, metric := range Metrics {
		ret.columns[metric] = column{}
	}

	ret.fill(before, columnSet{
		ids:         MetricIDSTimeBefore,
		compression: MetricCompressionTimeBefore,
		outputSize:  MetricOutputSizeBefore,
		inputSize:   MetricInputSize,
	})
	ret.fill(after, columnSet{
		ids:         MetricIDSTimeAfter,
		compression: MetricCompressionTimeAfter,
		outputSize:  MetricOutputSizeAfter,
	})
	ret.fill(pure, columnSet{
		ids:         MetricIDSTimePure,
		compression: MetricCompressionTimePure,
	})

	seen := map[SiteKey]bool{}
	for _, site := range ret.rows {
		seen[site] = true
	}
	for _, parsed := range []*ParsedLog{after, pure} {
		for _, site := range parsed.keys {
			if !seen[site] {
				seen[site] = true
				ret.orphans = append(ret.orphans, site)
			}
		}
	}

	return ret
}
