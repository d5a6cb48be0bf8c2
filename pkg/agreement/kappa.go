// Package agreement measures inter-annotator agreement between two labelings of
// the same items.
package agreement

import (
	"errors"
	"fmt"

	"github.com/unowned-ai/emolabel/pkg/labels"
)

var (
	ErrEmpty          = errors.New("no ratings to compare")
	ErrLengthMismatch = errors.New("rating sequences differ in length")
	// ErrUndefined is returned when both annotators use one and the same single
	// category throughout: chance agreement is 1 and kappa has no value.
	ErrUndefined = errors.New("kappa is undefined when expected agreement is 1")
	// ErrTextMismatch is returned when two exports do not label the same texts in the same order.
	ErrTextMismatch = errors.New("exports do not cover the same texts")
)

// Result carries kappa together with the quantities it is derived from.
type Result struct {
	Kappa    float64
	Observed float64 // fraction of items both annotators labeled identically
	Expected float64 // agreement expected by chance from the marginals
	Items    int
}

// CohenKappa computes unweighted Cohen's kappa for two equally long rating
// sequences. Categories are the union of values seen in either sequence.
func CohenKappa[T comparable](a, b []T) (Result, error) {
	if len(a) != len(b) {
		return Result{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}
	n := len(a)
	if n == 0 {
		return Result{}, ErrEmpty
	}

	countsA := make(map[T]int)
	countsB := make(map[T]int)
	agree := 0
	for i := range a {
		countsA[a[i]]++
		countsB[b[i]]++
		if a[i] == b[i] {
			agree++
		}
	}

	total := float64(n)
	po := float64(agree) / total

	var pe float64
	for category, ca := range countsA {
		pe += float64(ca) * float64(countsB[category])
	}
	pe /= total * total

	if pe == 1 {
		return Result{Observed: po, Expected: pe, Items: n}, ErrUndefined
	}

	return Result{
		Kappa:    (po - pe) / (1 - pe),
		Observed: po,
		Expected: pe,
		Items:    n,
	}, nil
}

// CompareRecords computes kappa between two annotators' exports of the same
// texts. Row i of a and row i of b must carry the same text.
func CompareRecords(a, b []labels.Record) (Result, error) {
	if len(a) != len(b) {
		return Result{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}
	la := make([]labels.Label, len(a))
	lb := make([]labels.Label, len(b))
	for i := range a {
		if a[i].Text != b[i].Text {
			return Result{}, fmt.Errorf("%w: row %d", ErrTextMismatch, i+1)
		}
		la[i] = a[i].Label
		lb[i] = b[i].Label
	}
	return CohenKappa(la, lb)
}

// Interpret gives the Landis & Koch verbal band for a kappa value.
func Interpret(kappa float64) string {
	switch {
	case kappa < 0:
		return "poor"
	case kappa <= 0.20:
		return "slight"
	case kappa <= 0.40:
		return "fair"
	case kappa <= 0.60:
		return "moderate"
	case kappa <= 0.80:
		return "substantial"
	default:
		return "almost perfect"
	}
}
