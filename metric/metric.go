// Package metric implements perceptual color difference formulas over
// CIE L*a*b* colors.
package metric

import (
	"errors"
	"fmt"
	"strings"

	"palut/cielab"
)

// ErrUnknownMetric is returned when a metric selector names no known formula.
var ErrUnknownMetric = errors.New("unknown distance metric")

// Metric computes a non-negative dissimilarity between two colors.
//
// The two arguments are not interchangeable for every formula: ref is the
// reference color (a palette entry) and sample is the color being matched
// against it. CIE94 derives its weighting from the chroma of ref.
type Metric interface {
	Distance(ref, sample cielab.Lab) float64
}

type Kind int

const (
	KindCIE76 Kind = iota
	KindCIE94
	KindCIEDE2000
)

var kindNames = [...]string{
	KindCIE76:     "cie76",
	KindCIE94:     "cie94",
	KindCIEDE2000: "ciede2000",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the metric names case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownMetric, s, strings.Join(kindNames[:], ", "))
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Metric returns the formula selected by k.
func (k Kind) Metric() (Metric, error) {
	switch k {
	case KindCIE76:
		return CIE76{}, nil
	case KindCIE94:
		return CIE94{}, nil
	case KindCIEDE2000:
		return CIEDE2000{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, k)
}

// Parse is ParseKind followed by Kind.Metric.
func Parse(s string) (Metric, error) {
	k, err := ParseKind(s)
	if err != nil {
		return nil, err
	}
	return k.Metric()
}
