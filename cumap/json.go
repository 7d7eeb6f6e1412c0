package cumap

import "encoding/json"

// jsonForm mirrors the canonical persisted shape from spec §4.2/§6:
// {"funcs": [...], "func_to_cu": [...]}, keys sorted, 4-space indent.
// The writer's spelling (func_to_cu) is canonical; the mis-spelled
// reader path (funcs_to_cu) documented as a bug in spec §9's Open
// Questions is intentionally not implemented — see SPEC_FULL.md.
type jsonForm struct {
	FuncToCU []int32  `json:"func_to_cu"`
	Funcs    []uint64 `json:"funcs"`
}

// MarshalJSON renders m in the canonical persisted shape.
func (m *CUMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonForm{Funcs: m.funcs, FuncToCU: m.funcToCU})
}

// UnmarshalJSON parses the canonical persisted shape into m.
func (m *CUMap) UnmarshalJSON(data []byte) error {
	var jf jsonForm
	if err := json.Unmarshal(data, &jf); err != nil {
		return err
	}
	built, err := New(jf.Funcs, jf.FuncToCU)
	if err != nil {
		return err
	}
	*m = *built
	return nil
}
