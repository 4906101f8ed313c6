package util

import (
	"fmt"
	"strings"
)

// JoinString renders every element with String() and joins them with sep
func JoinString[S fmt.Stringer](elems []S, sep string) string {
	strs := make([]string, len(elems))
	for i, elem := range elems {
		strs[i] = elem.String()
	}
	return strings.Join(strs, sep)
}
