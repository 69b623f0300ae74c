package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intervalsOf(pairs ...int) []Interval[int] {
	out := make([]Interval[int], 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, IntervalFrom(pairs[i], pairs[i+1]))
	}
	return out
}

func exact(i int) position    { return position{kind: posExact, index: i} }
func joinFrom(i int) position { return position{kind: posJoinFrom, index: i} }
func joinTo(i int) position   { return position{kind: posJoinTo, index: i} }
func merge(i int) position    { return position{kind: posMerge, index: i} }
func between(l, r int) position {
	return position{kind: posBetween, left: l, right: r}
}

var (
	first = position{kind: posFirst}
	last  = position{kind: posLast}
)

func TestClassifyRange(t *testing.T) {
	four := intervalsOf(10, 20, 30, 40, 50, 60, 70, 80)

	cases := map[string]struct {
		intervals    []Interval[int]
		rng          Interval[int]
		expectedFrom position
		expectedTo   position
	}{
		"ToTheEnd":                   {intervals: intervalsOf(10, 15), rng: IntervalFrom(20, 25), expectedFrom: last, expectedTo: last},
		"ToTheEndWithJoin":           {intervals: intervalsOf(10, 15), rng: IntervalFrom(16, 25), expectedFrom: joinTo(0), expectedTo: last},
		"AtTheBeginning":             {intervals: intervalsOf(15, 20), rng: IntervalFrom(5, 10), expectedFrom: first, expectedTo: first},
		"BeginningIntoFirst":         {intervals: intervalsOf(10, 15, 20, 25), rng: IntervalFrom(5, 12), expectedFrom: first, expectedTo: exact(0)},
		"ExactToExact":               {intervals: intervalsOf(10, 20, 30, 40, 50, 60, 70, 80, 90, 100), rng: IntervalFrom(35, 75), expectedFrom: exact(1), expectedTo: exact(3)},
		"FirstCoveringFirst":         {intervals: four, rng: IntervalFrom(5, 25), expectedFrom: first, expectedTo: between(0, 1)},
		"FirstCoveringTwo":           {intervals: four, rng: IntervalFrom(5, 45), expectedFrom: first, expectedTo: between(1, 2)},
		"CoveringSecond":             {intervals: four, rng: IntervalFrom(25, 45), expectedFrom: between(0, 1), expectedTo: between(1, 2)},
		"CoveringSecondAndThird":     {intervals: four, rng: IntervalFrom(25, 65), expectedFrom: between(0, 1), expectedTo: between(2, 3)},
		"CoveringLast":               {intervals: four, rng: IntervalFrom(65, 85), expectedFrom: between(2, 3), expectedTo: last},
		"CoveringLastTwo":            {intervals: four, rng: IntervalFrom(45, 85), expectedFrom: between(1, 2), expectedTo: last},
		"CoveringEverything":         {intervals: four, rng: IntervalFrom(5, 85), expectedFrom: first, expectedTo: last},
		"BetweenToExact":             {intervals: four, rng: IntervalFrom(25, 35), expectedFrom: between(0, 1), expectedTo: exact(1)},
		"BetweenToExactTwo":          {intervals: four, rng: IntervalFrom(25, 55), expectedFrom: between(0, 1), expectedTo: exact(2)},
		"BetweenToExactLast":         {intervals: four, rng: IntervalFrom(25, 70), expectedFrom: between(0, 1), expectedTo: exact(3)},
		"ExactToBetween":             {intervals: four, rng: IntervalFrom(35, 45), expectedFrom: exact(1), expectedTo: between(1, 2)},
		"ExactToBetweenTwo":          {intervals: four, rng: IntervalFrom(35, 65), expectedFrom: exact(1), expectedTo: between(2, 3)},
		"ExactToLast":                {intervals: four, rng: IntervalFrom(35, 85), expectedFrom: exact(1), expectedTo: last},
		"InsideOne":                  {intervals: intervalsOf(10, 20, 30, 40), rng: IntervalFrom(31, 32), expectedFrom: exact(1), expectedTo: exact(1)},
		"ExactlyBetween":             {intervals: four, rng: IntervalFrom(21, 29), expectedFrom: joinTo(0), expectedTo: joinFrom(1)},
		"JoinFirst":                  {intervals: four, rng: IntervalFrom(5, 9), expectedFrom: first, expectedTo: joinFrom(0)},
		"JoinLast":                   {intervals: four, rng: IntervalFrom(81, 85), expectedFrom: joinTo(3), expectedTo: last},
		"JoinBothSidesOfFirst":       {intervals: intervalsOf(10, 20, 30, 40, 50, 60), rng: IntervalFrom(9, 21), expectedFrom: joinFrom(0), expectedTo: joinTo(0)},
		"JoinFromToJoinFrom":         {intervals: intervalsOf(10, 20, 30, 40, 50, 60), rng: IntervalFrom(9, 29), expectedFrom: joinFrom(0), expectedTo: joinFrom(1)},
		"JoinToToJoinFromSkip":       {intervals: intervalsOf(10, 20, 30, 40, 50, 60), rng: IntervalFrom(21, 49), expectedFrom: joinTo(0), expectedTo: joinFrom(2)},
		"ExactToMerge":               {intervals: intervalsOf(10, 20, 30, 40, 50, 60, 62, 65), rng: IntervalFrom(15, 61), expectedFrom: exact(0), expectedTo: merge(2)},
		"MergeToLast":                {intervals: intervalsOf(10, 20, 30, 40, 50, 60, 62, 65), rng: IntervalFrom(61, 68), expectedFrom: merge(2), expectedTo: last},
		"MergeToJoinTo":              {intervals: intervalsOf(10, 20, 22, 30, 40, 50, 60, 70), rng: IntervalFrom(21, 31), expectedFrom: merge(0), expectedTo: joinTo(1)},
		"MergeToJoinToSkipInterval":  {intervals: intervalsOf(10, 20, 22, 30, 40, 50, 60, 70), rng: IntervalFrom(21, 51), expectedFrom: merge(0), expectedTo: joinTo(2)},
		"PlaceholderBefore":          {intervals: []Interval[int]{EmptyInterval(100)}, rng: IntervalFrom(5, 10), expectedFrom: first, expectedTo: first},
		"PlaceholderAfter":           {intervals: []Interval[int]{EmptyInterval(0)}, rng: IntervalFrom(5, 10), expectedFrom: last, expectedTo: last},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			from, to := classifyRange(tc.intervals, tc.rng)
			assert.Equal(t, tc.expectedFrom, from, "from: got %s", from)
			assert.Equal(t, tc.expectedTo, to, "to: got %s", to)
		})
	}
}

func TestClassifyAtLimits(t *testing.T) {
	intervals := []Interval[uint8]{IntervalFrom[uint8](0, 10), IntervalFrom[uint8](200, 255)}

	assert.Equal(t, exact(0), classify(intervals, 0))
	assert.Equal(t, joinTo(0), classify(intervals, 11))
	assert.Equal(t, joinFrom(1), classify(intervals, 199))
	assert.Equal(t, exact(1), classify(intervals, 255))
	assert.Equal(t, between(0, 1), classify(intervals, 100))

	signed := []Interval[int8]{IntervalFrom[int8](-100, 126)}
	assert.Equal(t, joinTo(0), classify(signed, 127))
	assert.Equal(t, first, classify(signed, -128))
	assert.Equal(t, joinFrom(0), classify(signed, -101))
}

func TestClassifyInsert(t *testing.T) {
	intervals := intervalsOf(10, 20, 22, 30, 40, 50)

	cases := map[int]insertIndex{
		5:  {kind: insertNew, index: 0},
		9:  {kind: insertExtendFrom, index: 0},
		10: {kind: insertHasValue, index: 0},
		21: {kind: insertBridge, index: 0},
		31: {kind: insertExtendTo, index: 1},
		32: {kind: insertNew, index: 2},
		39: {kind: insertExtendFrom, index: 2},
		40: {kind: insertHasValue, index: 2},
		51: {kind: insertExtendTo, index: 2},
		52: {kind: insertNew, index: 3},
	}
	for v, expected := range cases {
		assert.Equal(t, expected, classifyInsert(intervals, v), "value %d", v)
	}
}

func TestClassifyRemove(t *testing.T) {
	intervals := intervalsOf(10, 20, 22, 30, 40, 50, 55, 55)

	cases := map[int]removeIndex{
		5:  {kind: removeNoValue},
		21: {kind: removeNoValue},
		60: {kind: removeNoValue},
		10: {kind: removeIncFrom, index: 0},
		11: {kind: removeSplitAt, index: 0},
		20: {kind: removeDecTo, index: 0},
		55: {kind: removeWhole, index: 3},
	}
	for v, expected := range cases {
		assert.Equal(t, expected, classifyRemove(intervals, v), "value %d", v)
	}
}
