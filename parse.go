package popcount

import (
	"strconv"
	"strings"
)

// ParseSelector parses the name of a kernel ("naive", "table",
// "kernighan", "sideways", "popcnt", "popcnt2", or "asm") or a mix of
// two single word kernels written "mixed:A,B" or "mixed:A,B,RA:RB".
// The ratio defaults to 1:1.  ParseSelector(sel.String()) returns sel.
func ParseSelector(s string) (Selector, error) {
	name, args, mixed := strings.Cut(s, ":")
	if !mixed {
		return parseKernel(s)
	}

	if name != "mixed" {
		return nil, SelectorError.New("unknown selector %q", s)
	}

	fields := strings.Split(args, ",")
	if len(fields) != 2 && len(fields) != 3 {
		return nil, SelectorError.New("mixed selector %q needs two kernels and an optional ratio", s)
	}

	var m Mix
	var err error
	if m.A, err = parseKernel(fields[0]); err != nil {
		return nil, err
	}

	if m.B, err = parseKernel(fields[1]); err != nil {
		return nil, err
	}

	m.RatioA, m.RatioB = 1, 1
	if len(fields) == 3 {
		if m.RatioA, m.RatioB, err = parseRatio(fields[2]); err != nil {
			return nil, err
		}
	}

	if _, _, err = m.validate(); err != nil {
		return nil, err
	}

	return m, nil
}

func parseKernel(name string) (Kernel, error) {
	for k := range kernels {
		if kernels[k].name == name {
			return Kernel(k), nil
		}
	}

	return 0, SelectorError.New("unknown kernel %q", name)
}

func parseRatio(s string) (a, b int, err error) {
	as, bs, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, SelectorError.New("ratio %q is not of the form A:B", s)
	}

	if a, err = strconv.Atoi(as); err != nil {
		return 0, 0, SelectorError.Wrap(err)
	}

	if b, err = strconv.Atoi(bs); err != nil {
		return 0, 0, SelectorError.Wrap(err)
	}

	return a, b, nil
}
