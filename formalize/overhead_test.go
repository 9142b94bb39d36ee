package formalize

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestSummarizeOverhead(t *testing.T) {
	before := mustParse(t, strings.Join([]string{
		"IDS(Illegal):a.pcap:detected:0.010",
		"Compression:a.pcap:elapsed:0.100:size:100:out:50",
		"IDS(Illegal):b.pcap:detected:0.020",
		"Compression:b.pcap:elapsed:0.200:size:100:out:75",
		"IDS(Illegal):c.pcap:detected:0.030",
	}, "\n"))
	after := mustParse(t, strings.Join([]string{
		"IDS(Illegal):a.pcap:detected:0.012",
		"Compression:a.pcap:elapsed:0.110:size:100:out:40",
		"IDS(Illegal):b.pcap:detected:0.026",
		"IDS(Illegal):orphan.pcap:detected:9",
	}, "\n"))
	pure := mustParse(t, "")

	report := SummarizeOverhead(before, after, pure)

	assert.Equal(t, report.Sites, 3)

	assert.Equal(t, report.IDSAfterMS.NSamples, 2)
	assertClose(t, report.IDSAfterMS.Min, 2)
	assertClose(t, report.IDSAfterMS.Max, 6)
	assertClose(t, report.IDSAfterMS.Mean, 4)

	assert.Equal(t, report.CompressionAfterMS.NSamples, 1)
	assertClose(t, report.CompressionAfterMS.Mean, 10)

	assert.Equal(t, report.PressRateBefore.NSamples, 2)
	assertClose(t, report.PressRateBefore.Mean, 0.375)
	assert.Equal(t, report.PressRateAfter.NSamples, 1)
	assertClose(t, report.PressRateAfter.Mean, 0.6)

	assert.Assert(t, report.IDSPureMS == nil)
	assert.Assert(t, report.CompressionPureMS == nil)
}
