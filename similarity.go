package hyperminhash

import "math"

/*
Jaccard estimates the Jaccard index of the two underlying sets.

Matching non-empty registers are counted, the expected number of spurious
matches under the sketch's collision mode is subtracted, and the result is
normalized by the union's filled buckets. The correction may push the
numerator below zero; that is reported as-is rather than clamped. When the
union is empty the index is 0, which also makes the intersection estimate
come out to its expected value of 0.

Fails with ErrMismatch on parameter disagreement, and with ErrCardinality
when the approximate collision model is out of its range.
*/
func (sk *Sketch[T]) Jaccard(other *Sketch[T]) (float64, error) {
	if err := sk.compatible(other); err != nil {
		return 0, err
	}

	matches := 0
	for i, v := range sk.reg {
		if (v != 0 || sk.sub[i] != 0) && v == other.reg[i] && sk.sub[i] == other.sub[i] {
			matches++
		}
	}

	union, err := sk.Merge(other)
	if err != nil {
		return 0, err
	}
	filled := union.FilledBuckets()
	if filled == 0 {
		return 0, nil
	}

	collisions, err := expectedCollisions(sk.Count(), other.Count(), sk.p, sk.q, sk.r, sk.mode)
	if err != nil {
		return 0, err
	}
	return (float64(matches) - collisions) / float64(filled), nil
}

// IntersectionEstimate is the result of Sketch.Intersection.
type IntersectionEstimate struct {
	// Intersection is the estimated cardinality of the intersection.
	Intersection float64
	// Jaccard is the estimated Jaccard index.
	Jaccard float64
	// BucketIntersection is the Jaccard index scaled back to filled
	// union buckets, rounded to the nearest integer.
	BucketIntersection int
	// Union is the estimated cardinality of the union.
	Union float64
}

// Intersection estimates the intersection cardinality of the two
// underlying sets, along with the Jaccard index, the rounded bucket
// intersection, and the union cardinality it derives them from.
func (sk *Sketch[T]) Intersection(other *Sketch[T]) (IntersectionEstimate, error) {
	union, err := sk.Merge(other)
	if err != nil {
		return IntersectionEstimate{}, err
	}
	j, err := sk.Jaccard(other)
	if err != nil {
		return IntersectionEstimate{}, err
	}
	unionCount := union.Count()
	filled := union.FilledBuckets()
	intersection := 0.0
	if filled != 0 {
		// An empty union can count as +Inf in the minhash regime.
		intersection = j * unionCount
	}
	return IntersectionEstimate{
		Intersection:       intersection,
		Jaccard:            j,
		BucketIntersection: int(math.Round(j * float64(filled))),
		Union:              unionCount,
	}, nil
}
