package css

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ClassName derives a short class name from seed. The same seed always
// yields the same name: "c" followed by six hex digits.
func ClassName(seed string) string {
	return fmt.Sprintf("c%06x", xxhash.Sum64String(seed)&0xffffff)
}
