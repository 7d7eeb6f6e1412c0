package storage

import (
	"encoding/gob"
	"fmt"
	"os"
)

// SegmentClass classifies an exported Segment (spec §6, grounded on
// original_source/src/recover/exporter.py's SegmentClass enum).
type SegmentClass uint8

const (
	SegmentInvalid SegmentClass = iota
	SegmentCode
	SegmentData
)

func (c SegmentClass) String() string {
	switch c {
	case SegmentCode:
		return "CODE"
	case SegmentData:
		return "DATA"
	default:
		return "INVALID"
	}
}

// Segment is one entry of the exported program's segment table
// (original_source/src/recover/exporter.py's Segment dataclass).
type Segment struct {
	Name        string
	StartEA     uint64
	EndEA       uint64
	Selector    int32
	Permissions uint32
	Class       SegmentClass
}

// SaveSegments gob-encodes segs to path.
func SaveSegments(path string, segs []Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("storage.SaveSegments: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(segs); err != nil {
		return fmt.Errorf("storage.SaveSegments: %w", err)
	}
	return nil
}

// LoadSegments decodes a segment table previously written by
// SaveSegments.
func LoadSegments(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadSegments: %w", err)
	}
	defer f.Close()

	var segs []Segment
	if err := gob.NewDecoder(f).Decode(&segs); err != nil {
		return nil, fmt.Errorf("storage.LoadSegments: %w", err)
	}
	return segs, nil
}
