package game

import "fmt"

// Tier is the difficulty of a round. The set is closed; every tier maps to
// a fixed digit count, memorize duration and score bonus.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
	TierHell   Tier = "hell"
)

type tierParams struct {
	digits          int
	memorizeSeconds int
	bonusWeight     int
}

// Digit counts grow strictly Easy < Medium < Hard < Hell, and memorize time
// never shrinks as the count grows.
var difficultyTable = map[Tier]tierParams{
	TierEasy:   {digits: 4, memorizeSeconds: 2, bonusWeight: 0},
	TierMedium: {digits: 6, memorizeSeconds: 3, bonusWeight: 1},
	TierHard:   {digits: 11, memorizeSeconds: 5, bonusWeight: 2},
	TierHell:   {digits: 18, memorizeSeconds: 8, bonusWeight: 3},
}

// Tiers lists all difficulty tiers in ascending order.
func Tiers() []Tier {
	return []Tier{TierEasy, TierMedium, TierHard, TierHell}
}

// ParseTier converts a wire value ("easy", "medium", ...) into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := difficultyTable[t]; !ok {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return t, nil
}

// Length returns the number of digits shown at this tier.
func (t Tier) Length() int {
	return difficultyTable[t].digits
}

// MemorizeSeconds returns how long the digits stay visible at this tier.
func (t Tier) MemorizeSeconds() int {
	return difficultyTable[t].memorizeSeconds
}

// BonusWeight returns the flat score bonus awarded at this tier.
func (t Tier) BonusWeight() int {
	return difficultyTable[t].bonusWeight
}
