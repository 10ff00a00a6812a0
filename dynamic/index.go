package dynamic

import (
	"strconv"

	"github.com/oy3o/xcdr/errors"
	"github.com/oy3o/xcdr/types"
)

// Elements of collections and characters of strings are stored under their index used as
// member id, so the dense table from position to id is the identity over [0, n).
// span validates every stored index and returns n: the declared length for arrays,
// the largest written index plus one otherwise.
func (v *Value) span(l *layout, phase errors.Phase) (uint64, error) {
	limit := l.bound
	if l.kind == types.KindArray {
		limit = l.length
	}
	var n uint64
	for _, id := range v.ids() {
		if err := checkIndex(phase, id, limit); err != nil {
			return 0, err
		}
		if i := uint64(id) + 1; i > n {
			n = i
		}
	}
	if l.kind == types.KindArray {
		n = l.length
	}
	return n, nil
}

// checkIndex validates an element index against a bound; 0 means unbounded.
func checkIndex(phase errors.Phase, id types.MemberID, bound uint64) error {
	if id > types.MaxMemberID {
		return errors.InvalidIndex(phase, nil, uint64(id), uint64(types.MaxMemberID)+1)
	}
	if bound > 0 && uint64(id) >= bound {
		return errors.InvalidIndex(phase, nil, uint64(id), bound)
	}
	return nil
}

func indexPath(i uint64) string { return "[" + strconv.FormatUint(i, 10) + "]" }
