package pipeline

import (
	"fmt"
	"strconv"

	contactserrors "tratador/internal/contacts/errors"
)

const (
	ModeChunk  = "chunk"
	ModeWarmUp = "warmup"
)

// DefaultWarmUpTiers ramps group sizes up and then plateaus on the last tier.
var DefaultWarmUpTiers = []int{30, 30, 60, 60, 90, 90, 180}

// Strategy decides which group every row of a table of n rows belongs to.
// Groups are 1-based and never decrease along the rows.
type Strategy interface {
	Groups(n int) []int
	Mode() string
}

// ChunkStrategy puts Size consecutive rows in each group.
type ChunkStrategy struct {
	Size int
}

func NewChunkStrategy(size int) (ChunkStrategy, error) {
	if size <= 0 {
		return ChunkStrategy{}, &contactserrors.InvalidParameterError{
			Name:   "num_grupos",
			Reason: fmt.Sprintf("must be a positive integer, got %d", size),
		}
	}
	return ChunkStrategy{Size: size}, nil
}

func (s ChunkStrategy) Groups(n int) []int {
	groups := make([]int, n)
	for i := range groups {
		groups[i] = i/s.Size + 1
	}
	return groups
}

func (s ChunkStrategy) Mode() string {
	return ModeChunk
}

// WarmUpStrategy fills groups with Tiers[0] rows, then Tiers[1] rows and so
// on. Once the last tier is reached every remaining row stays in it.
type WarmUpStrategy struct {
	Tiers []int
}

func NewWarmUpStrategy(tiers []int) (WarmUpStrategy, error) {
	if len(tiers) == 0 {
		return WarmUpStrategy{}, &contactserrors.InvalidParameterError{
			Name:   "warm-up tiers",
			Reason: "must list at least one tier",
		}
	}
	for i, t := range tiers {
		if t <= 0 {
			return WarmUpStrategy{}, &contactserrors.InvalidParameterError{
				Name:   "warm-up tier " + strconv.Itoa(i),
				Reason: fmt.Sprintf("must be positive, got %d", t),
			}
		}
	}
	return WarmUpStrategy{Tiers: tiers}, nil
}

func (s WarmUpStrategy) Groups(n int) []int {
	groups := make([]int, n)
	last := len(s.Tiers) - 1
	tier, filled := 0, 0

	for i := range groups {
		if tier < last && filled == s.Tiers[tier] {
			tier++
			filled = 0
		}
		groups[i] = tier + 1
		filled++
	}
	return groups
}

func (s WarmUpStrategy) Mode() string {
	return ModeWarmUp
}

func Label(prefix string, group int) string {
	return prefix + "_G" + strconv.Itoa(group)
}

// Partition labels contacts in place and returns the number of groups used.
func Partition(contacts []Contact, prefix string, strategy Strategy) int {
	groups := strategy.Groups(len(contacts))
	for i := range contacts {
		contacts[i].Label = Label(prefix, groups[i])
	}
	if len(groups) == 0 {
		return 0
	}
	return groups[len(groups)-1]
}
