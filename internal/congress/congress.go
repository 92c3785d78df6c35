// Package congress maps between congress numbers and calendar years.
//
// Congress 0 stands for the Continental Congress and is given the span 1786-1789. Every numbered
// congress after it lasts two years starting in 1789, so congress n spans 1789+2(n-1) to
// 1789+2n. Consecutive congresses share their transition year; when a single congress has to be
// picked for such a year, the one beginning that year wins.
package congress

import (
	"time"

	"github.com/z3c0/vistos-legacy/internal/components/assert"
	"github.com/z3c0/vistos-legacy/internal/components/chrono"
	"github.com/z3c0/vistos-legacy/internal/components/failure"
)

const (
	EpochYear       = 1789
	TermLength      = 2
	ContinentalYear = 1786
)

// Identity is a congress number and the years it starts and ends in.
type Identity struct {
	Number    int `json:"number"`
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
}

// Contains reports whether year touches the congress, transition years included.
func (id Identity) Contains(year int) bool {
	return year >= id.StartYear && year <= id.EndYear
}

// RangePolicy decides whether a range that starts on a transition year also takes in the
// congress ending that year.
type RangePolicy int

const (
	ExcludeEndingCongress RangePolicy = iota
	IncludeEndingCongress
)

func (p RangePolicy) String() string {
	if p == IncludeEndingCongress {
		return "include"
	}
	return "exclude"
}

// Resolver is safe for concurrent use, it holds nothing but a clock.
type Resolver struct {
	time chrono.TimeAPI
}

func NewResolver(time chrono.TimeAPI) Resolver {
	assert.NotNil(time)
	return Resolver{time: time}
}

// StartYear and EndYear do not check n against the current congress.
func StartYear(n int) int {
	if n <= 0 {
		return ContinentalYear
	}
	return EpochYear + TermLength*(n-1)
}

func EndYear(n int) int {
	if n <= 0 {
		return EpochYear
	}
	return EpochYear + TermLength*n
}

func identity(n int) Identity {
	return Identity{Number: n, StartYear: StartYear(n), EndYear: EndYear(n)}
}

// numberBeginning returns the congress in session during year, taking the one beginning in a
// transition year. Years before the epoch belong to congress 0.
func numberBeginning(year int) int {
	if year < EpochYear {
		return 0
	}
	return (year-EpochYear)/TermLength + 1
}

// CongressNumbers returns every congress touching year in ascending order. Transition years give
// two numbers, years before 1786 give none.
func CongressNumbers(year int) []int {
	if year < ContinentalYear {
		return nil
	}
	n := numberBeginning(year)
	if year >= EpochYear && (year-EpochYear)%TermLength == 0 {
		return []int{n - 1, n}
	}
	return []int{n}
}

// CurrentNumber is the congress in session right now. A new congress convenes on January 3, so
// on the first two days of a transition year the previous one is still current.
func (r Resolver) CurrentNumber() int {
	now := r.time.Now()
	numbers := CongressNumbers(now.Year())
	if len(numbers) == 0 {
		return 0
	}
	if len(numbers) == 2 && now.Month() == time.January && now.Day() < 3 {
		return numbers[0]
	}
	return numbers[len(numbers)-1]
}

func (r Resolver) Current() Identity {
	return identity(r.CurrentNumber())
}

func (r Resolver) IsValidNumber(n int) bool {
	return n >= 0 && n <= r.CurrentNumber()
}

// AllNumbers lists 0 through the current congress.
func (r Resolver) AllNumbers() []int {
	current := r.CurrentNumber()
	out := make([]int, current+1)
	for i := range out {
		out[i] = i
	}
	return out
}

func (r Resolver) Years(n int) (start, end int, err error) {
	if !r.IsValidNumber(n) {
		return 0, 0, failure.Resolutionf("congress %d does not exist", n)
	}
	return StartYear(n), EndYear(n), nil
}

// Resolve turns a selector into a congress. A nil selector means the current congress, a
// selector no larger than the current congress number is a congress number and anything else is
// a calendar year.
func (r Resolver) Resolve(selector *int) (Identity, error) {
	id, _, err := r.resolve(selector)
	return id, err
}

// ResolveNumber is Resolve for a selector that is known to be present.
func (r Resolver) ResolveNumber(selector int) (Identity, error) {
	return r.Resolve(&selector)
}

func (r Resolver) resolve(selector *int) (id Identity, isYear bool, err error) {
	current := r.CurrentNumber()
	if selector == nil {
		return identity(current), false, nil
	}

	s := *selector
	if s < 0 {
		return Identity{}, false, failure.Resolutionf("negative selector %d", s)
	}
	if s <= current {
		return identity(s), false, nil
	}

	n := numberBeginning(s)
	if n <= current {
		return identity(n), true, nil
	}
	// the next congress has not convened, its first year still belongs to the current one
	if s <= EndYear(current) {
		return identity(current), true, nil
	}
	return Identity{}, true, failure.Resolutionf(
		"year %d is after the end of the current congress (%d)",
		s, EndYear(current),
	)
}

// ResolveRange resolves both ends of a range and returns every congress between them in
// ascending order. A nil end means the current congress.
func (r Resolver) ResolveRange(start, end *int, policy RangePolicy) ([]Identity, error) {
	first, startIsYear, err := r.resolve(start)
	if err != nil {
		return nil, err
	}
	last, _, err := r.resolve(end)
	if err != nil {
		return nil, err
	}
	if first.Number > last.Number {
		return nil, failure.Resolutionf(
			"range start congress %d is after range end congress %d",
			first.Number, last.Number,
		)
	}

	from := first.Number
	if policy == IncludeEndingCongress && startIsYear && from > 0 && *start == first.StartYear {
		from--
	}

	out := make([]Identity, 0, last.Number-from+1)
	for n := from; n <= last.Number; n++ {
		out = append(out, identity(n))
	}
	return out, nil
}
