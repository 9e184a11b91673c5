package common

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a short stable hex digest suitable for file names.
func Hash(str string) string {
	return strconv.FormatUint(xxhash.Sum64String(str), 16)
}
