package intent

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidRange rejects a range that is not "N" or "N-M" with 1 <= N <= M.
var ErrInvalidRange = errors.New("invalid line range")

// maxRange bounds how many numbers a single range may expand to.
const maxRange = 1000

var (
	specPartRe = regexp.MustCompile(`\s*(?:,|\band\b)\s*`)
	rangeRe    = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
)

// ExtractLineNumbers expands a line spec such as "2-5", "2,4,6", "3" or
// "1-2, 7 and 9" into its numbers in order of first appearance. Zero and
// unparseable parts are dropped.
func ExtractLineNumbers(spec string) []int {
	var numbers []int
	seen := make(map[int]bool)
	add := func(n int) {
		if n < 1 || seen[n] {
			return
		}
		seen[n] = true
		numbers = append(numbers, n)
	}

	for _, part := range specPartRe.Split(spec, -1) {
		if part == "" {
			continue
		}
		if m := rangeRe.FindStringSubmatch(part); m != nil {
			start, end := atoi(m[1]), atoi(m[2])
			if start > end {
				start, end = end, start
			}
			if end-start >= maxRange {
				end = start + maxRange - 1
			}
			for n := start; n <= end; n++ {
				add(n)
			}
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			add(n)
		}
	}
	return numbers
}

// ParseRange parses a single inclusive range, "N" or "N-M".
func ParseRange(spec string) (from, to int, err error) {
	first, last, isRange := strings.Cut(strings.TrimSpace(spec), "-")
	from, err = strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, ErrInvalidRange
	}
	to = from
	if isRange {
		if to, err = strconv.Atoi(strings.TrimSpace(last)); err != nil {
			return 0, 0, ErrInvalidRange
		}
	}
	if from < 1 || to < from {
		return 0, 0, ErrInvalidRange
	}
	return from, to, nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
