package tle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// lineLength is the fixed width of both element lines.
const lineLength = 69

// Validate checks the fixed-width structure of both lines (length, line
// numbers, matching catalog number) and that every numeric field the SGP4
// initializer reads parses. Checksums are reported by Metadata but not
// enforced, since published sets often carry stale ones.
func (e ElementSet) Validate() error {
	line1 := strings.TrimSpace(e.Line1)
	line2 := strings.TrimSpace(e.Line2)

	if len(line1) != lineLength {
		return fmt.Errorf("line1 length %d, expected %d", len(line1), lineLength)
	}
	if len(line2) != lineLength {
		return fmt.Errorf("line2 length %d, expected %d", len(line2), lineLength)
	}
	if !strings.HasPrefix(line1, "1 ") {
		return fmt.Errorf("line1 must start with '1 ', got %q", line1[:2])
	}
	if !strings.HasPrefix(line2, "2 ") {
		return fmt.Errorf("line2 must start with '2 ', got %q", line2[:2])
	}
	if strings.TrimSpace(line1[2:7]) != strings.TrimSpace(line2[2:7]) {
		return fmt.Errorf("catalog number mismatch: %q vs %q", line1[2:7], line2[2:7])
	}
	for _, f := range numericFields(line1, line2) {
		if err := f.parse(); err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
	}
	return nil
}

// numericField is one column group as go-satellite slices it before
// parsing. go-satellite exits the process on a parse failure, so every
// field must be checked here first.
type numericField struct {
	name  string
	value string
	isInt bool
}

func (f numericField) parse() error {
	if f.isInt {
		_, err := strconv.Atoi(f.value)
		return err
	}
	_, err := strconv.ParseFloat(f.value, 64)
	return err
}

func numericFields(line1, line2 string) []numericField {
	// Implied-decimal exponent fields: " 14121-3" -> ".14121e-3".
	exp := func(sign, mantissa, exponent string) string {
		return strings.Replace(sign+"."+mantissa+"e"+exponent, " ", "", 2)
	}
	return []numericField{
		{name: "catalog number", value: strings.TrimSpace(line1[2:7]), isInt: true},
		{name: "epoch year", value: line1[18:20], isInt: true},
		{name: "epoch day", value: line1[20:32]},
		{name: "mean motion first derivative", value: strings.Replace(line1[33:43], " ", "", 2)},
		{name: "mean motion second derivative", value: exp(line1[44:45], line1[45:50], line1[50:52])},
		{name: "bstar", value: exp(line1[53:54], line1[54:59], line1[59:61])},
		{name: "inclination", value: strings.TrimSpace(line2[8:16])},
		{name: "right ascension", value: strings.TrimSpace(line2[17:25])},
		{name: "eccentricity", value: "." + line2[26:33]},
		{name: "argument of perigee", value: strings.TrimSpace(line2[34:42])},
		{name: "mean anomaly", value: strings.TrimSpace(line2[43:51])},
		{name: "mean motion", value: strings.TrimSpace(line2[52:63])},
	}
}

// Metadata decodes the catalog number, international designator and epoch
// from line 1.
func (e ElementSet) Metadata() (Metadata, error) {
	if err := e.Validate(); err != nil {
		return Metadata{}, err
	}
	line1 := strings.TrimSpace(e.Line1)
	line2 := strings.TrimSpace(e.Line2)

	// NORAD ID: cols 3-7 (0-indexed: 2..7).
	noradStr := strings.TrimSpace(line1[2:7])
	noradID, err := strconv.Atoi(noradStr)
	if err != nil {
		return Metadata{}, fmt.Errorf("invalid NORAD ID %q: %w", noradStr, err)
	}

	// Epoch: cols 19-32 (0-indexed: 18..32).
	epochStr := strings.TrimSpace(line1[18:32])
	epoch, err := parseEpoch(epochStr)
	if err != nil {
		return Metadata{}, fmt.Errorf("invalid epoch: %w", err)
	}

	return Metadata{
		Name:          strings.TrimSpace(e.Name),
		NORADID:       noradID,
		Designator:    strings.TrimSpace(line1[9:17]),
		Epoch:         epoch,
		ChecksumValid: checksumOK(line1) && checksumOK(line2),
	}, nil
}

// checksum computes the modulo-10 checksum over the first 68 columns:
// digits count their value, minus signs count one.
func checksum(line string) int {
	sum := 0
	for _, c := range line[:lineLength-1] {
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

func checksumOK(line string) bool {
	last := line[lineLength-1]
	if last < '0' || last > '9' {
		return false
	}
	return checksum(line) == int(last-'0')
}

// parseEpoch converts a TLE epoch string in YYDDD.DDDDDDDD format to time.Time.
// Year 00-56 → 2000s, 57-99 → 1900s.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch string too short: %q", s)
	}

	yearStr := s[:2]
	dayStr := s[2:]

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", yearStr, err)
	}

	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(dayStr, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", dayStr, err)
	}

	// dayOfYear is 1-based: day 1 = Jan 1.
	t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	t = t.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour)))

	return t, nil
}
