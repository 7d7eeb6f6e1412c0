package cumap

import (
	"fmt"
	"sort"
)

// CUMap owns an ordered list of function addresses and a parallel list
// of compile-unit labels. CU identifiers are arbitrary positive
// integers while mutating; Renumber remaps them to 0..k-1 in address
// order (spec §3).
type CUMap struct {
	funcs    []uint64
	funcToCU []int32
}

// New builds a CUMap from funcs (must already be sorted ascending) and
// a parallel cus slice of the same length.
func New(funcs []uint64, cus []int32) (*CUMap, error) {
	if len(funcs) != len(cus) {
		return nil, fmt.Errorf("cumap.New: %d funcs, %d labels: %w", len(funcs), len(cus), ErrLengthMismatch)
	}
	for i := 1; i < len(funcs); i++ {
		if funcs[i] <= funcs[i-1] {
			return nil, fmt.Errorf("cumap.New: funcs[%d]=%#x <= funcs[%d]=%#x: %w", i, funcs[i], i-1, funcs[i-1], ErrNotSorted)
		}
	}
	f := make([]uint64, len(funcs))
	copy(f, funcs)
	c := make([]int32, len(cus))
	copy(c, cus)
	return &CUMap{funcs: f, funcToCU: c}, nil
}

// Singleton builds a CUMap assigning every function in funcs (sorted
// ascending) to its own CU, labeled 0..n-1: the all-singleton layout
// the agglomerative procedure starts from (spec §4.4.2). The
// agglomerative estimator keeps its own per-function labels and does
// not call Singleton.
func Singleton(funcs []uint64) (*CUMap, error) {
	cus := make([]int32, len(funcs))
	for i := range cus {
		cus[i] = int32(i)
	}
	return New(funcs, cus)
}

// Len returns the count of distinct CU identifiers currently present.
func (m *CUMap) Len() int {
	seen := make(map[int32]struct{})
	for _, id := range m.funcToCU {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// NumFuncs returns the number of functions tracked.
func (m *CUMap) NumFuncs() int {
	return len(m.funcs)
}

// Funcs returns the ordered function address list. Callers must treat
// it as read-only.
func (m *CUMap) Funcs() []uint64 {
	return m.funcs
}

// FuncToCU returns the parallel label list. Callers must treat it as
// read-only.
func (m *CUMap) FuncToCU() []int32 {
	return m.funcToCU
}

// CUInfo is a derived view of one CU run: [Start, End) indexes into
// the owning CUMap's function list.
type CUInfo struct {
	ID    int32
	Start int
	End   int
	Funcs []uint64
}

func (m *CUMap) infoAt(i int) CUInfo {
	start, end := m.runBounds(i)
	return CUInfo{ID: m.funcToCU[i], Start: start, End: end, Funcs: m.funcs[start:end]}
}

// runBounds expands i to the maximal contiguous run sharing its label.
func (m *CUMap) runBounds(i int) (start, end int) {
	id := m.funcToCU[i]
	start, end = i, i+1
	for start > 0 && m.funcToCU[start-1] == id {
		start--
	}
	for end < len(m.funcToCU) && m.funcToCU[end] == id {
		end++
	}
	return start, end
}

// GetFirstCU returns the CU containing index 0, or ok=false if the
// CUMap is empty.
func (m *CUMap) GetFirstCU() (CUInfo, bool) {
	if len(m.funcs) == 0 {
		return CUInfo{}, false
	}
	return m.infoAt(0), true
}

// GetLastCU returns the CU containing the last index, or ok=false if
// the CUMap is empty.
func (m *CUMap) GetLastCU() (CUInfo, bool) {
	if len(m.funcs) == 0 {
		return CUInfo{}, false
	}
	return m.infoAt(len(m.funcs) - 1), true
}

// GetNextCU walks from cu to the adjacent maximal run that follows it,
// or ok=false if cu is the last CU.
func (m *CUMap) GetNextCU(cu CUInfo) (CUInfo, bool) {
	if cu.End >= len(m.funcs) {
		return CUInfo{}, false
	}
	return m.infoAt(cu.End), true
}

// GetPrevCU walks from cu to the adjacent maximal run that precedes
// it, or ok=false if cu is the first CU.
func (m *CUMap) GetPrevCU(cu CUInfo) (CUInfo, bool) {
	if cu.Start <= 0 {
		return CUInfo{}, false
	}
	return m.infoAt(cu.Start - 1), true
}

// GetCUByCUID scans forward to the first index labeled id and returns
// its run, or ok=false if id does not appear.
func (m *CUMap) GetCUByCUID(id int32) (CUInfo, bool) {
	for i, label := range m.funcToCU {
		if label == id {
			return m.infoAt(i), true
		}
	}
	return CUInfo{}, false
}

// GetCUByFuncIdx locates the CU containing function index i.
func (m *CUMap) GetCUByFuncIdx(i int) (CUInfo, error) {
	if i < 0 || i >= len(m.funcs) {
		return CUInfo{}, fmt.Errorf("cumap.GetCUByFuncIdx: index %d: %w", i, ErrIndexOutOfRange)
	}
	return m.infoAt(i), nil
}

// GetCUByFuncEA locates the CU containing function address ea via
// binary search (spec §4.2).
func (m *CUMap) GetCUByFuncEA(ea uint64) (CUInfo, error) {
	i, ok := m.indexOf(ea)
	if !ok {
		return CUInfo{}, fmt.Errorf("cumap.GetCUByFuncEA: ea %#x: %w", ea, ErrUnknownFunc)
	}
	return m.infoAt(i), nil
}

// indexOf binary-searches funcs for ea.
func (m *CUMap) indexOf(ea uint64) (int, bool) {
	i := sort.Search(len(m.funcs), func(i int) bool { return m.funcs[i] >= ea })
	if i < len(m.funcs) && m.funcs[i] == ea {
		return i, true
	}
	return 0, false
}

// SetCUByFuncIdx assigns function index i to CU id. This may
// temporarily break the contiguity invariant during a bulk
// reassignment; the caller is responsible for leaving every affected
// run contiguous once the bulk update completes (spec §4.2).
func (m *CUMap) SetCUByFuncIdx(i int, id int32) error {
	if i < 0 || i >= len(m.funcs) {
		return fmt.Errorf("cumap.SetCUByFuncIdx: index %d: %w", i, ErrIndexOutOfRange)
	}
	m.funcToCU[i] = id
	return nil
}

// SetCUByFuncEA assigns the function at address ea to CU id.
func (m *CUMap) SetCUByFuncEA(ea uint64, id int32) error {
	i, ok := m.indexOf(ea)
	if !ok {
		return fmt.Errorf("cumap.SetCUByFuncEA: ea %#x: %w", ea, ErrUnknownFunc)
	}
	return m.SetCUByFuncIdx(i, id)
}

// GetNextCUID returns one past the highest CU id currently in use,
// suitable for minting a fresh id (spec §4.2, §4.6 "new_cu_id").
func (m *CUMap) GetNextCUID() int32 {
	var max int32 = -1
	for _, id := range m.funcToCU {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Renumber rewrites CU labels to 0..k-1 in address order.
func (m *CUMap) Renumber() {
	next := int32(0)
	var i int
	for i < len(m.funcToCU) {
		_, end := m.runBounds(i)
		for ; i < end; i++ {
			m.funcToCU[i] = next
		}
		next++
	}
}

// GetInvalidCUs returns the CU ids whose occurrences in func_to_cu are
// not a single contiguous run — a diagnostic for the fail-fast
// validation in spec §4.6 ("get_invalid_cus() must be empty post-commit").
func (m *CUMap) GetInvalidCUs() []int32 {
	firstSeen := make(map[int32]int)
	lastSeen := make(map[int32]int)
	count := make(map[int32]int)
	for i, id := range m.funcToCU {
		if _, ok := firstSeen[id]; !ok {
			firstSeen[id] = i
		}
		lastSeen[id] = i
		count[id]++
	}
	var bad []int32
	for id, first := range firstSeen {
		if lastSeen[id]-first+1 != count[id] {
			bad = append(bad, id)
		}
	}
	sort.Slice(bad, func(i, j int) bool { return bad[i] < bad[j] })
	return bad
}

// Clone returns a deep copy of m.
func (m *CUMap) Clone() *CUMap {
	f := make([]uint64, len(m.funcs))
	copy(f, m.funcs)
	c := make([]int32, len(m.funcToCU))
	copy(c, m.funcToCU)
	return &CUMap{funcs: f, funcToCU: c}
}
