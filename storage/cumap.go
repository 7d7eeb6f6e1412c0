package storage

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huku-/recover-go/cumap"
)

// gobCUMap is the on-disk shape for the binary CUMap form: CUMap's
// fields are unexported, so round-tripping goes through cumap.New via
// the exported Funcs()/FuncToCU() accessors (same boundary
// cumap/json.go already crosses for the JSON form).
type gobCUMap struct {
	Funcs    []uint64
	FuncToCU []int32
}

// SaveCUMap writes m to path. The container format is selected by
// path's extension: ".json" produces the indented, sorted-key form
// cumap.CUMap.MarshalJSON renders; anything else (conventionally
// ".gob") uses encoding/gob.
func SaveCUMap(path string, m *cumap.CUMap) error {
	switch filepath.Ext(path) {
	case ".json":
		data, err := json.MarshalIndent(m, "", "    ")
		if err != nil {
			return fmt.Errorf("storage.SaveCUMap: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("storage.SaveCUMap: %w", err)
		}
		return nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("storage.SaveCUMap: %w", err)
		}
		defer f.Close()

		g := gobCUMap{Funcs: m.Funcs(), FuncToCU: m.FuncToCU()}
		if err := gob.NewEncoder(f).Encode(g); err != nil {
			return fmt.Errorf("storage.SaveCUMap: %w", err)
		}
		return nil
	}
}

// LoadCUMap reads a CUMap previously written by SaveCUMap, dispatching
// on path's extension: ".json" is decoded as JSON and ".gob" with
// encoding/gob. Any other extension returns cumap.ErrUnknownExtension
// without reading the file, so a gob file SaveCUMap wrote under another
// extension is not read back (spec §7: "CUMap file with unrecognised
// extension").
func LoadCUMap(path string) (*cumap.CUMap, error) {
	switch filepath.Ext(path) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("storage.LoadCUMap: %w", err)
		}
		var m cumap.CUMap
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("storage.LoadCUMap: %w", err)
		}
		return &m, nil
	case ".gob":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("storage.LoadCUMap: %w", err)
		}
		defer f.Close()

		var g gobCUMap
		if err := gob.NewDecoder(f).Decode(&g); err != nil {
			return nil, fmt.Errorf("storage.LoadCUMap: %w", err)
		}
		m, err := cumap.New(g.Funcs, g.FuncToCU)
		if err != nil {
			return nil, fmt.Errorf("storage.LoadCUMap: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("storage.LoadCUMap: %s: %w", path, cumap.ErrUnknownExtension)
	}
}
