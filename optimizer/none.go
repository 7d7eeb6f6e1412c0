package optimizer

import "github.com/huku-/recover-go/cumap"

// None performs no optimization; optimizePair always reports no
// change. Selected when the CLI's --optimizer flag is "none" (spec §6).
type None struct{}

func (None) optimizePair(*cumap.CUMap, cumap.CUInfo, cumap.CUInfo) (int, int32) {
	return 0, -1
}

var _ Strategy = None{}
