package formalize

// SiteKey is the capture-file name a measurement was taken on, e.g. "coursera.org.pcap".
type SiteKey string

// Reading is a numeric log token. Raw is kept so exports reproduce the log text verbatim.
type Reading struct {
	Raw   string
	Value float64
}

type CompressionRecord struct {
	Time       Reading
	InputSize  Reading
	OutputSize Reading
	PressRate  float64
}

// MetricRecord holds what one log says about one site. A nil field means no line of that
// kind was seen.
type MetricRecord struct {
	IDS         *Reading
	Compression *CompressionRecord
}

// ParsedLog maps sites to records, remembering the order sites first appeared in.
type ParsedLog struct {
	keys    []SiteKey
	records map[SiteKey]*MetricRecord
}

func newParsedLog() *ParsedLog {
	return &ParsedLog{
		keys:    []SiteKey{},
		records: map[SiteKey]*MetricRecord{},
	}
}

// recordFor returns the mutable record for site, creating it if absent.
func (l *ParsedLog) recordFor(site SiteKey) *MetricRecord {
	record, ok := l.records[site]
	if !ok {
		record = &MetricRecord{}
		l.records[site] = record
		l.keys = append(l.keys, site)
	}

	return record
}

func (l *ParsedLog) Len() int {
	return len(l.keys)
}

// Keys returns the sites in first-appearance order.
func (l *ParsedLog) Keys() []SiteKey {
	return append([]SiteKey{}, l.keys...)
}

// Get returns a copy of the record for site.
func (l *ParsedLog) Get(site SiteKey) (MetricRecord, bool) {
	record, ok := l.records[site]
	if !ok {
		return MetricRecord{}, false
	}

	ret := MetricRecord{}
	if record.IDS != nil {
		ids := *record.IDS
		ret.IDS = &ids
	}
	if record.Compression != nil {
		compression := *record.Compression
		ret.Compression = &compression
	}

	return ret, true
}

type Metric string

const (
	MetricIDSTimeBefore         Metric = "IDS_time_before"
	MetricIDSTimeAfter          Metric = "IDS_time_after"
	MetricIDSTimePure           Metric = "IDS_time_pure"
	MetricCompressionTimeBefore Metric = "Compression_time_before"
	MetricCompressionTimeAfter  Metric = "Compression_time_after"
	MetricCompressionTimePure   Metric = "Compression_time_pure"
	MetricInputSize             Metric = "input_size"
	MetricOutputSizeBefore      Metric = "output_size_before"
	MetricOutputSizeAfter       Metric = "output_size_after"
)

// Metrics lists the comparison table columns in export order.
var Metrics = []Metric{
	MetricIDSTimeBefore,
	MetricIDSTimeAfter,
	MetricIDSTimePure,
	MetricCompressionTimeBefore,
	MetricCompressionTimeAfter,
	MetricCompressionTimePure,
	MetricInputSize,
	MetricOutputSizeBefore,
	MetricOutputSizeAfter,
}
