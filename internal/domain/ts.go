package domain

import (
	"cmp"
	"strconv"
	"strings"
)

// CompareTS orders two message timestamps ("1448496754.000002") as decimal
// numbers without parsing them into floats.
func CompareTS(a, b string) int {
	ai, af, _ := strings.Cut(a, ".")
	bi, bf, _ := strings.Cut(b, ".")

	ai = strings.TrimLeft(ai, "0")
	bi = strings.TrimLeft(bi, "0")
	if len(ai) != len(bi) {
		return cmp.Compare(len(ai), len(bi))
	}
	if c := strings.Compare(ai, bi); c != 0 {
		return c
	}

	return strings.Compare(strings.TrimRight(af, "0"), strings.TrimRight(bf, "0"))
}

// TSSeconds returns the whole-second part of a timestamp, or 0.
func TSSeconds(ts string) int64 {
	sec, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
