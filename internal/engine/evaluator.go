package engine

import (
	"fmt"
	"sort"

	"github.com/weekendpoker/gameserver/internal/deck"
)

// Category ranks hand classes from 1 (Royal Flush) to 10 (High Card).
// Lower is better.
type Category int

const (
	RoyalFlush Category = iota + 1
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	OnePair
	HighCard
)

func (c Category) String() string {
	switch c {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return "Straight Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case TwoPair:
		return "Two Pair"
	case OnePair:
		return "One Pair"
	case HighCard:
		return "High Card"
	default:
		return "Unknown"
	}
}

// HandRank is the evaluator's verdict on a hand: its category, the
// tiebreak ranks most-significant first, the five cards chosen and a
// spoken description.
type HandRank struct {
	Category    Category    `json:"category"`
	Ranks       []int       `json:"ranks"`
	Cards       []deck.Card `json:"cards"`
	Description string      `json:"description"`
}

// Evaluate ranks the best 5-card hand obtainable from exactly 7 cards
// (2 hole + 5 community). It enumerates all 21 five-card subsets,
// classifies each, and keeps the maximum under Compare. Deterministic
// and pure.
func Evaluate(seven []deck.Card) (HandRank, error) {
	if len(seven) != 7 {
		return HandRank{}, fmt.Errorf("%w, got %d", ErrWrongCardCount, len(seven))
	}

	var best HandRank
	first := true
	var combo [5]deck.Card
	n := len(seven)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						combo[0], combo[1], combo[2], combo[3], combo[4] =
							seven[a], seven[b], seven[c], seven[d], seven[e]
						rank := classify5(combo)
						if first || Compare(rank, best) > 0 {
							best = rank
							first = false
						}
					}
				}
			}
		}
	}
	return best, nil
}

// Compare orders two hand ranks: positive when a wins, negative when b
// wins, zero for an exact split. Category decides first (lower ordinal
// wins), then the tiebreak ranks element by element (higher wins).
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		return int(b.Category) - int(a.Category)
	}
	for i := 0; i < len(a.Ranks) || i < (len(b.Ranks)); i++ {
		av, bv := 0, 0
		if i < len(a.Ranks) {
			av = a.Ranks[i]
		}
		if i < len(b.Ranks) {
			bv = b.Ranks[i]
		}
		if av != bv {
			return av - bv
		}
	}
	return 0
}

// classify5 classifies a single 5-card hand by rank-multiset grouping
// plus flush and straight detection.
func classify5(cards [5]deck.Card) HandRank {
	nums := make([]int, 5)
	for i, c := range cards {
		nums[i] = c.Value()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(nums)))

	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	wheel := nums[0] == 14 && nums[1] == 5 && nums[2] == 4 && nums[3] == 3 && nums[4] == 2
	straight := wheel || (nums[0]-nums[4] == 4 && distinct(nums))
	straightHigh := nums[0]
	if wheel {
		// The ace plays low: the wheel is a 5-high straight.
		straightHigh = 5
	}

	groups := groupByCount(nums)

	switch {
	case flush && straight && nums[0] == 14 && nums[4] == 10:
		return newRank(RoyalFlush, []int{14}, cards, "Royal Flush")
	case flush && straight:
		return newRank(StraightFlush, []int{straightHigh}, cards,
			fmt.Sprintf("Straight Flush, %s-high", deck.Rank(straightHigh).Name()))
	case groups[0].count == 4:
		return newRank(FourOfAKind, []int{groups[0].rank, groups[1].rank}, cards,
			fmt.Sprintf("Four of a Kind, %s", deck.Rank(groups[0].rank).Plural()))
	case groups[0].count == 3 && groups[1].count == 2:
		return newRank(FullHouse, []int{groups[0].rank, groups[1].rank}, cards,
			fmt.Sprintf("Full House, %s over %s",
				deck.Rank(groups[0].rank).Plural(), deck.Rank(groups[1].rank).Plural()))
	case flush:
		return newRank(Flush, nums, cards,
			fmt.Sprintf("Flush, %s-high", deck.Rank(nums[0]).Name()))
	case straight:
		return newRank(Straight, []int{straightHigh}, cards,
			fmt.Sprintf("Straight, %s-high", deck.Rank(straightHigh).Name()))
	case groups[0].count == 3:
		return newRank(ThreeOfAKind,
			[]int{groups[0].rank, groups[1].rank, groups[2].rank}, cards,
			fmt.Sprintf("Three of a Kind, %s", deck.Rank(groups[0].rank).Plural()))
	case groups[0].count == 2 && groups[1].count == 2:
		return newRank(TwoPair,
			[]int{groups[0].rank, groups[1].rank, groups[2].rank}, cards,
			fmt.Sprintf("Two Pair, %s and %s",
				deck.Rank(groups[0].rank).Plural(), deck.Rank(groups[1].rank).Plural()))
	case groups[0].count == 2:
		return newRank(OnePair,
			[]int{groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank}, cards,
			fmt.Sprintf("Pair of %s", deck.Rank(groups[0].rank).Plural()))
	default:
		return newRank(HighCard, nums, cards,
			fmt.Sprintf("High Card, %s", deck.Rank(nums[0]).Name()))
	}
}

type rankGroup struct {
	rank  int
	count int
}

// groupByCount groups the rank values by multiplicity, ordered by count
// descending then rank descending.
func groupByCount(nums []int) []rankGroup {
	counts := make(map[int]int)
	for _, n := range nums {
		counts[n]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for rank, count := range counts {
		groups = append(groups, rankGroup{rank: rank, count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

func distinct(nums []int) bool {
	for i := 1; i < len(nums); i++ {
		if nums[i] == nums[i-1] {
			return false
		}
	}
	return true
}

func newRank(cat Category, ranks []int, cards [5]deck.Card, desc string) HandRank {
	return HandRank{
		Category:    cat,
		Ranks:       append([]int(nil), ranks...),
		Cards:       append([]deck.Card(nil), cards[:]...),
		Description: desc,
	}
}
