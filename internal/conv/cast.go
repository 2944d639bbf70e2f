package conv

import (
	"fmt"
	"math"
)

// Int64ToInt converts int64 to int safely.
// On 64-bit platforms this never fails for non-negative sizes; on 32-bit
// platforms it rejects objects that do not fit the address space.
func Int64ToInt(v int64) (int, error) {
	if v > math.MaxInt || v < math.MinInt {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int", v)
	}
	return int(v), nil
}
