package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huku-/recover-go/graph"
)

// Data bundles one exported program's graphs and segment table, the
// in-memory shape original_source/src/recover/exporter.py's
// load_data() returns. AFCG and DFG are views over PDG (spec §3: "PDG,
// AFCG and DFG are the same underlying graph"), not independently
// persisted structures — LoadData derives them after loading the base
// graph.
type Data struct {
	PDG  *graph.Graph
	AFCG *graph.View
	DFG  *graph.View
	Sels []int32
	Segs []Segment
}

// LoadData loads the PDG and segment table previously written to dir
// by SaveData, deriving AFCG and DFG as views over the loaded PDG.
// prefix matches the file-name prefix SaveData was given (spec §6,
// grounded on exporter.py's load_data(path, prefix)).
func LoadData(dir, prefix string) (*Data, error) {
	pdg, err := LoadGraph(filepath.Join(dir, prefix+"pdg.gob"))
	if err != nil {
		return nil, fmt.Errorf("storage.LoadData: %w", err)
	}

	segs, err := LoadSegments(filepath.Join(dir, prefix+"segs.gob"))
	if err != nil {
		return nil, fmt.Errorf("storage.LoadData: %w", err)
	}

	// Selectors of every segment that is not a PLT/GOT stub, mirroring
	// exporter.py's load_data(): "if 'plt' not in seg.name and 'got' not
	// in seg.name".
	var sels []int32
	for _, seg := range segs {
		if !strings.Contains(seg.Name, "plt") && !strings.Contains(seg.Name, "got") {
			sels = append(sels, seg.Selector)
		}
	}

	return &Data{
		PDG:  pdg,
		AFCG: graph.AFCG(pdg),
		DFG:  graph.DFG(pdg),
		Sels: sels,
		Segs: segs,
	}, nil
}

// SaveData writes pdg.gob, afcg.gob, dfg.gob (materialized snapshots
// of the AFCG/DFG views) and segs.gob under dir, prefixed by prefix.
// afcg.gob/dfg.gob are redundant with pdg.gob at load time (LoadData
// always re-derives the views) but are still written for parity with
// the persisted-file contract in spec §6 and for inspection by
// external tooling that does not know how to compute the views
// itself.
func SaveData(dir, prefix string, d *Data) error {
	if err := SaveGraph(filepath.Join(dir, prefix+"pdg.gob"), d.PDG); err != nil {
		return fmt.Errorf("storage.SaveData: %w", err)
	}
	if err := SaveGraph(filepath.Join(dir, prefix+"afcg.gob"), graph.AFCG(d.PDG)); err != nil {
		return fmt.Errorf("storage.SaveData: %w", err)
	}
	if err := SaveGraph(filepath.Join(dir, prefix+"dfg.gob"), graph.DFG(d.PDG)); err != nil {
		return fmt.Errorf("storage.SaveData: %w", err)
	}
	if err := SaveSegments(filepath.Join(dir, prefix+"segs.gob"), d.Segs); err != nil {
		return fmt.Errorf("storage.SaveData: %w", err)
	}
	return nil
}

// Selector returns the segment selector whose name contains name
// (spec §6: "--segment NAME", grounded on __main__.py's
// _get_segment_selector — "if name in seg.name"), or
// ErrNoSuchSegment if none match.
func (d *Data) Selector(name string) (int32, error) {
	for _, seg := range d.Segs {
		if strings.Contains(seg.Name, name) {
			return seg.Selector, nil
		}
	}
	return 0, fmt.Errorf("storage.Data.Selector: %q: %w", name, ErrNoSuchSegment)
}
