package enumerate_test

import (
	"context"
	"errors"
	"math/bits"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/okian/opteams/internal/domain/catalog"
	"github.com/okian/opteams/internal/domain/enumerate"
	"github.com/okian/opteams/internal/domain/model"
	"github.com/okian/opteams/internal/domain/rules"
	"github.com/okian/opteams/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// char is a compact test fixture: name, strength value, special text.
type char struct {
	name     string
	strength int
	special  string
}

func buildCatalog(chars []char) *catalog.Catalog {
	rows := make([]catalog.RawRow, len(chars))
	for i, ch := range chars {
		rows[i] = catalog.RawRow{
			Line: i + 2,
			Name: ch.name,
			Stats: map[string]string{
				"Energy":    "0",
				"Fighting":  "0",
				"Strength":  itoa(ch.strength),
				"Intellect": "0",
				"Threat":    "1",
			},
			Special: ch.special,
		}
	}
	cat, err := catalog.New(rows)
	if err != nil {
		panic(err)
	}
	return cat
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func drain(t *testing.T, it *enumerate.Iterator) []model.Team {
	t.Helper()
	var teams []model.Team
	for {
		team, ok := it.Next(context.Background())
		if !ok {
			return teams
		}
		teams = append(teams, team)
	}
}

func teamKeys(teams []model.Team) []string {
	keys := make([]string, len(teams))
	for i, team := range teams {
		names := team.Names()
		sort.Strings(names)
		key := ""
		for _, n := range names {
			key += n + "|"
		}
		keys[i] = key
	}
	sort.Strings(keys)
	return keys
}

func TestEnumerateValidation(t *testing.T) {
	Convey("Given an enumerator", t, func() {
		e := enumerate.New()
		cat := buildCatalog([]char{{"a", 8, "x"}})

		Convey("When the rule set is invalid", func() {
			set := rules.Defaults("Strength")
			set.TargetTotal = 0

			_, err := e.Enumerate(context.Background(), cat, set)

			Convey("Then it fails before any search starts", func() {
				So(errors.Is(err, rules.ErrInvalidRuleSet), ShouldBeTrue)
			})
		})

		Convey("When the primary stat is unrecognized", func() {
			set := rules.Defaults("Charisma")
			_, err := e.Enumerate(context.Background(), cat, set)
			So(errors.Is(err, rules.ErrInvalidRuleSet), ShouldBeTrue)
		})
	})
}

func TestSumExactnessExample(t *testing.T) {
	Convey("Given the catalog where three high-tier members overshoot the target", t, func() {
		// A, B, C at Strength 8; D at 7; E at 1. Three 8s already sum to
		// 24 > 16, so no valid team exists under minHigh=3.
		cat := buildCatalog([]char{
			{"A", 8, ""},
			{"B", 8, "reserve"},
			{"C", 8, ""},
			{"D", 7, ""},
			{"E", 1, ""},
		})

		set := rules.Defaults("Strength")
		set.MinMidTier = 0 // relaxed for this example

		Convey("When enumerating", func() {
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)

			Convey("Then the result is empty", func() {
				So(drain(t, it), ShouldBeEmpty)
			})
		})
	})
}

func TestSingleValidTeam(t *testing.T) {
	Convey("Given a catalog with exactly one valid combination", t, func() {
		// Only {A, B} sums to 16 with two high-tier members and a
		// reserve-eligible member. {A,C,D} and {B,C,D} also sum to 16 but
		// fail the high-tier minimum.
		cat := buildCatalog([]char{
			{"A", 8, "May enter play from reserve"},
			{"B", 8, ""},
			{"C", 7, ""},
			{"D", 1, ""},
		})

		set := rules.Defaults("Strength")
		set.MinHighTier = 2
		set.MinMidTier = 0

		Convey("When enumerating", func() {
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)
			teams := drain(t, it)

			Convey("Then exactly that one team is returned", func() {
				So(teams, ShouldHaveLength, 1)
				So(teams[0].Names(), ShouldResemble, []string{"A", "B"})
				So(teams[0].Total, ShouldEqual, 16)
			})
		})
	})
}

func TestZeroValuedExtension(t *testing.T) {
	Convey("Given a zero-valued character alongside an exact-sum pair", t, func() {
		cat := buildCatalog([]char{
			{"A", 8, "from reserve"},
			{"B", 8, ""},
			{"Z", 0, ""},
		})

		set := rules.Defaults("Strength")
		set.MinHighTier = 2
		set.MinMidTier = 0

		Convey("When enumerating", func() {
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)
			teams := drain(t, it)

			Convey("Then the search continues past an emission", func() {
				// {A,B} at size 2 and {A,B,Z} at size 3 are independent
				// subsets; both are valid.
				So(teamKeys(teams), ShouldResemble, []string{"A|B|", "A|B|Z|"})
			})
		})
	})
}

func TestTierExactMatch(t *testing.T) {
	Convey("Given a character above the high tier value", t, func() {
		// 9 is neither tier 8 nor tier 7: tier membership is exact-match
		// classification, not a threshold.
		cat := buildCatalog([]char{
			{"over", 9, "from reserve"},
			{"high", 8, ""},
			{"mid", 7, ""},
		})

		set := rules.Defaults("Strength")
		set.TargetTotal = 24
		set.MinHighTier = 1
		set.MinMidTier = 1

		Convey("When enumerating", func() {
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)
			teams := drain(t, it)

			Convey("Then the 9-value member counts toward neither tier", func() {
				So(teams, ShouldHaveLength, 1)
				So(teamKeys(teams), ShouldResemble, []string{"high|mid|over|"})
			})
		})

		Convey("When the high tier minimum cannot be met without the 9", func() {
			set.MinHighTier = 2
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)

			Convey("Then the result is empty", func() {
				So(drain(t, it), ShouldBeEmpty)
			})
		})
	})
}

func TestReserveEligibilityRequired(t *testing.T) {
	Convey("Given exact-sum teams without any reserve-eligible member", t, func() {
		cat := buildCatalog([]char{
			{"A", 8, ""},
			{"B", 8, ""},
		})

		set := rules.Defaults("Strength")
		set.MinHighTier = 2
		set.MinMidTier = 0

		Convey("When enumerating", func() {
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)

			Convey("Then the candidate is discarded", func() {
				So(drain(t, it), ShouldBeEmpty)
			})
		})

		Convey("When a custom keyword predicate is configured", func() {
			cat := buildCatalog([]char{
				{"A", 8, "Draw two cards"},
				{"B", 8, "May enter play from reserve"},
			})
			set.Reserve = rules.KeywordPredicate([]string{"from reserve"})

			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)
			teams := drain(t, it)

			Convey("Then eligibility follows the predicate, not mere text presence", func() {
				So(teams, ShouldHaveLength, 1)
				members := teams[0].Members
				eligible := false
				for _, m := range members {
					if m.Name == "B" {
						eligible = true
					}
				}
				So(eligible, ShouldBeTrue)
			})
		})
	})
}

func TestMonotonicEmptiness(t *testing.T) {
	Convey("Given a catalog with fewer tiered members than the minimums", t, func() {
		cat := buildCatalog([]char{
			{"A", 8, "x"},
			{"B", 7, "x"},
			{"C", 1, "x"},
		})

		set := rules.Defaults("Strength") // needs three 8s and one 7/8

		Convey("When enumerating", func() {
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)

			Convey("Then the result is empty, not an error", func() {
				So(err, ShouldBeNil)
				So(drain(t, it), ShouldBeEmpty)
			})
		})
	})

	Convey("Given an empty catalog", t, func() {
		cat := buildCatalog(nil)
		it, err := enumerate.New().Enumerate(context.Background(), cat, rules.Defaults("Strength"))
		So(err, ShouldBeNil)
		So(drain(t, it), ShouldBeEmpty)
	})
}

func TestCombinedTotalCap(t *testing.T) {
	Convey("Given a combined power-total cap", t, func() {
		rows := []catalog.RawRow{
			{Line: 2, Name: "lean", Stats: map[string]string{"Energy": "1", "Fighting": "1", "Strength": "8", "Intellect": "1", "Threat": "5"}, Special: "from reserve"},
			{Line: 3, Name: "bulky", Stats: map[string]string{"Energy": "7", "Fighting": "7", "Strength": "8", "Intellect": "7", "Threat": "9"}, Special: ""},
		}
		cat, err := catalog.New(rows)
		So(err, ShouldBeNil)

		set := rules.Defaults("Strength")
		set.TargetTotal = 16
		set.MinHighTier = 2
		set.MinMidTier = 0

		Convey("When the cap admits the pair", func() {
			set.MaxCombinedTotal = 50
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)
			So(drain(t, it), ShouldHaveLength, 1)
		})

		Convey("When the cap excludes the bulky member", func() {
			set.MaxCombinedTotal = 20
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)
			So(drain(t, it), ShouldBeEmpty)
		})

		Convey("When the cap is zero", func() {
			set.MaxCombinedTotal = 0
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)

			Convey("Then it is disabled", func() {
				So(drain(t, it), ShouldHaveLength, 1)
			})
		})
	})
}

func TestIdempotence(t *testing.T) {
	Convey("Given the same catalog and rule set", t, func() {
		cat := buildCatalog([]char{
			{"A", 8, "from reserve"},
			{"B", 8, ""},
			{"C", 8, ""},
			{"D", 7, "from reserve"},
			{"E", 1, ""},
			{"F", 0, ""},
		})

		set := rules.Defaults("Strength")
		set.MinHighTier = 2
		set.MinMidTier = 0

		Convey("When enumerating twice", func() {
			first, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)
			second, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)

			a := teamKeys(drain(t, first))
			b := teamKeys(drain(t, second))

			Convey("Then the team sets are identical", func() {
				So(a, ShouldResemble, b)
			})
		})
	})
}

func TestNoDuplicateTeams(t *testing.T) {
	Convey("Given a catalog with many overlapping combinations", t, func() {
		cat := buildCatalog([]char{
			{"A", 8, "x"}, {"B", 8, "x"}, {"C", 8, "x"},
			{"D", 7, "x"}, {"E", 7, "x"},
			{"F", 1, "x"}, {"G", 1, "x"}, {"H", 0, "x"},
		})

		set := rules.Defaults("Strength")
		set.MinHighTier = 1
		set.MinMidTier = 0

		Convey("When enumerating", func() {
			it, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)
			teams := drain(t, it)

			Convey("Then every team sums exactly to the target", func() {
				for _, team := range teams {
					sum := 0
					for _, m := range team.Members {
						sum += m.Strength
					}
					So(sum, ShouldEqual, set.TargetTotal)
					So(team.Total, ShouldEqual, set.TargetTotal)
				}
			})

			Convey("And no member repeats within a team", func() {
				for _, team := range teams {
					seen := map[string]bool{}
					for _, m := range team.Members {
						So(seen[m.Name], ShouldBeFalse)
						seen[m.Name] = true
					}
				}
			})

			Convey("And no two teams are identical as member sets", func() {
				keys := teamKeys(teams)
				for i := 1; i < len(keys); i++ {
					So(keys[i], ShouldNotEqual, keys[i-1])
				}
			})
		})
	})
}

func TestCancellation(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		cat := buildCatalog([]char{{"A", 8, "x"}, {"B", 8, "x"}})
		set := rules.Defaults("Strength")
		set.MinHighTier = 2
		set.MinMidTier = 0

		it, err := enumerate.New().Enumerate(context.Background(), cat, set)
		So(err, ShouldBeNil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When pulling from the iterator", func() {
			_, ok := it.Next(ctx)

			Convey("Then the search stops", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestParallelMatchesSerial(t *testing.T) {
	Convey("Given a catalog large enough to fan out", t, func() {
		rng := rand.New(rand.NewSource(7))
		// A guaranteed valid core so the comparison is never vacuous.
		chars := []char{
			{"anchor8", 8, "from reserve"},
			{"anchor7", 7, ""},
			{"anchor1", 1, ""},
		}
		for i := 0; i < 18; i++ {
			special := ""
			if rng.Intn(3) == 0 {
				special = "from reserve"
			}
			chars = append(chars, char{
				name:     "c" + itoa(i),
				strength: rng.Intn(9),
				special:  special,
			})
		}
		cat := buildCatalog(chars)

		set := rules.Defaults("Strength")
		set.MinHighTier = 1
		set.MinMidTier = 1

		Convey("When enumerating serially and with four workers", func() {
			serial, err := enumerate.New().Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)
			parallel, err := enumerate.New(enumerate.WithParallelism(4)).Enumerate(context.Background(), cat, set)
			So(err, ShouldBeNil)

			a := teamKeys(drain(t, serial))
			b := teamKeys(drain(t, parallel))

			Convey("Then both produce the same team set", func() {
				So(len(a), ShouldBeGreaterThan, 0)
				So(b, ShouldResemble, a)
			})
		})
	})
}

// naiveTeams enumerates every subset by bitmask and applies the predicates
// directly, as an oracle for the pruned search.
func naiveTeams(chars []char, set rules.Set) []string {
	pred := set.ReservePredicate()
	var keys []string
	for mask := 1; mask < 1<<len(chars); mask++ {
		if bits.OnesCount(uint(mask)) > set.MaxTeamSize {
			continue
		}
		sum, high, tiered, eligible := 0, 0, 0, 0
		key := ""
		var names []string
		for i, ch := range chars {
			if mask&(1<<i) == 0 {
				continue
			}
			sum += ch.strength
			if ch.strength == set.HighTierValue {
				high++
			}
			if ch.strength == set.HighTierValue || ch.strength == set.MidTierValue {
				tiered++
			}
			if pred(ch.special) {
				eligible++
			}
			names = append(names, ch.name)
		}
		if sum != set.TargetTotal || high < set.MinHighTier || tiered < set.MinHighTier+set.MinMidTier || eligible == 0 {
			continue
		}
		sort.Strings(names)
		for _, n := range names {
			key += n + "|"
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func TestAgainstBruteForce(t *testing.T) {
	Convey("Given randomized catalogs", t, func() {
		rng := rand.New(rand.NewSource(42))

		for round := 0; round < 5; round++ {
			var chars []char
			n := 8 + rng.Intn(5)
			for i := 0; i < n; i++ {
				special := ""
				if rng.Intn(2) == 0 {
					special = "from reserve"
				}
				chars = append(chars, char{
					name:     "r" + itoa(round) + "c" + itoa(i),
					strength: rng.Intn(10),
					special:  special,
				})
			}

			set := rules.Defaults("Strength")
			set.TargetTotal = 12 + rng.Intn(8)
			set.MinHighTier = rng.Intn(3)
			set.MinMidTier = rng.Intn(2)
			set.MaxTeamSize = 4 + rng.Intn(3)

			Convey("When comparing round "+itoa(round)+" against the bitmask oracle", func() {
				it, err := enumerate.New().Enumerate(context.Background(), buildCatalog(chars), set)
				So(err, ShouldBeNil)

				got := teamKeys(drain(t, it))
				want := naiveTeams(chars, set)
				if want == nil {
					So(got, ShouldBeEmpty)
				} else {
					So(got, ShouldResemble, want)
				}
			})
		}
	})
}

func TestParallelAbandonment(t *testing.T) {
	Convey("Given a parallel run with more teams than the fan-in buffer", t, func() {
		// 26 strength-8 characters give C(26,2)=325 valid pairs, far past
		// the channel buffer, so workers are mid-send when abandoned.
		var chars []char
		for i := 0; i < 26; i++ {
			chars = append(chars, char{"bulk" + itoa(i), 8, "from reserve"})
		}
		cat := buildCatalog(chars)
		set := rules.Defaults("Strength")
		set.MinHighTier = 2
		set.MinMidTier = 0

		before := runtime.NumGoroutine()
		it, err := enumerate.New(enumerate.WithParallelism(4)).
			Enumerate(context.Background(), cat, set)
		So(err, ShouldBeNil)

		Convey("When the consumer stops after one team and closes", func() {
			_, ok := it.Next(context.Background())
			So(ok, ShouldBeTrue)
			it.Close()

			Convey("Then the worker goroutines exit", func() {
				deadline := time.Now().Add(5 * time.Second)
				for time.Now().Before(deadline) && runtime.NumGoroutine() > before {
					time.Sleep(10 * time.Millisecond)
				}
				So(runtime.NumGoroutine(), ShouldBeLessThanOrEqualTo, before)

				Convey("And subsequent pulls report exhaustion", func() {
					_, ok := it.Next(context.Background())
					So(ok, ShouldBeFalse)
				})
			})
		})
	})
}
