package formalize

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const (
	fieldDelimiter = ":"

	kindIDS         = "IDS(Illegal)"
	kindCompression = "Compression"

	// IDS(Illegal):<site>:...:<seconds>
	idsSiteField  = 1
	idsFieldCount = 3

	// Compression:<site>:elapsed:<seconds>:size:<bytes>:out:<bytes>
	compressionSiteField       = 1
	compressionTimeField       = 3
	compressionInputSizeField  = 5
	compressionOutputSizeField = 7
	compressionFieldCount      = 8

	maxLineBytes = 1024 * 1024

	zstdSuffix = ".zst"
)

func parseReading(lineNo int, line string, token string) (Reading, error) {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return Reading{}, &MalformedLineError{
			Line:   lineNo,
			Text:   line,
			Reason: "not a finite number: " + strconv.Quote(token),
		}
	}

	return Reading{Raw: token, Value: value}, nil
}

func parseIDSLine(lineNo int, line string, fields []string) (SiteKey, *Reading, error) {
	if len(fields) < idsFieldCount {
		return "", nil, &MalformedLineError{Line: lineNo, Text: line, Reason: "too few IDS fields"}
	}

	ids, err := parseReading(lineNo, line, fields[len(fields)-1])
	if err != nil {
		return "", nil, err
	}

	return SiteKey(fields[idsSiteField]), &ids, nil
}

func parseCompressionLine(lineNo int, line string, fields []string) (SiteKey, *CompressionRecord, error) {
	if len(fields) < compressionFieldCount {
		return "", nil, &MalformedLineError{Line: lineNo, Text: line, Reason: "too few Compression fields"}
	}

	site := SiteKey(fields[compressionSiteField])

	elapsed, err := parseReading(lineNo, line, fields[compressionTimeField])
	if err != nil {
		return "", nil, err
	}
	inputSize, err := parseReading(lineNo, line, fields[compressionInputSizeField])
	if err != nil {
		return "", nil, err
	}
	outputSize, err := parseReading(lineNo, line, fields[compressionOutputSizeField])
	if err != nil {
		return "", nil, err
	}

	if inputSize.Value == 0 {
		return "", nil, &ZeroInputSizeError{Line: lineNo, Site: site}
	}

	return site, &CompressionRecord{
		Time:       elapsed,
		InputSize:  inputSize,
		OutputSize: outputSize,
		PressRate:  (inputSize.Value - outputSize.Value) / inputSize.Value,
	}, nil
}

// ParseLog reads a result log. Lines of unknown kind are skipped; a malformed line of a known
// kind aborts parsing.
func ParseLog(r io.Reader) (*ParsedLog, error) {
	ret := newParsedLog()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo += 1

		line := strings.TrimSpace(scanner.Text())
		fields := strings.Split(line, fieldDelimiter)

		switch fields[0] {
		case kindIDS:
			site, ids, err := parseIDSLine(lineNo, line, fields)
			if err != nil {
				return nil, err
			}
			ret.recordFor(site).IDS = ids

		case kindCompression:
			site, compression, err := parseCompressionLine(lineNo, line, fields)
			if err != nil {
				return nil, err
			}
			ret.recordFor(site).Compression = compression
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ret, nil
}

// ParseLogFile parses the log at path, decompressing it first if the name ends in ".zst".
func ParseLogFile(path string) (*ParsedLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, zstdSuffix) {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "could not open zstd stream of %s", path)
		}
		defer dec.Close()
		r = dec
	}

	parsed, err := ParseLog(r)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s", path)
	}

	return parsed, nil
}
