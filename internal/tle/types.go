package tle

import "time"

// ElementSet is one satellite's two-line element set. The lines are kept
// verbatim; only the catalog number and epoch are ever decoded here.
type ElementSet struct {
	Name  string
	Line1 string
	Line2 string
}

// Metadata is the decoded header of an ElementSet.
type Metadata struct {
	Name          string    `json:"name"`
	NORADID       int       `json:"norad_id"`
	Designator    string    `json:"intl_designator"`
	Epoch         time.Time `json:"epoch"`
	ChecksumValid bool      `json:"checksum_valid"`
}
