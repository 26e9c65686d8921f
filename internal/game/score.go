package game

import "math"

// Outcome is the immutable result of scoring one round. It carries the
// full breakdown, not just the final score, so the presentation layer can
// show how the score was built.
type Outcome struct {
	Tier             Tier    `json:"tier"`
	CorrectDigits    int     `json:"correctDigits"`
	WrongDigits      int     `json:"wrongDigits"`
	FullyCorrect     bool    `json:"fullyCorrect"`
	BaseScore        float64 `json:"baseScore"`
	DifficultyBonus  int     `json:"difficultyBonus"`
	FullCorrectBonus int     `json:"fullCorrectBonus"`
	RoundScore       int     `json:"roundScore"`
}

// Score compares guess against target position by position and computes the
// round score. Both strings must already have the tier's exact digit count;
// the round machine guarantees that before calling.
//
// Each correct position is worth 1 point, each wrong position costs 0.5,
// and the base score never goes below zero. A fully correct guess earns a
// bonus of round(length * 0.1) on top of the tier's flat bonus. Rounding is
// half-away-from-zero (math.Round), which matches the original game's
// behavior for the positive values this produces.
func Score(target, guess string, tier Tier) Outcome {
	length := len(target)
	correct := 0
	for i := 0; i < length; i++ {
		if guess[i] == target[i] {
			correct++
		}
	}
	wrong := length - correct
	fullyCorrect := correct == length

	base := float64(correct) - 0.5*float64(wrong)
	if base < 0 {
		base = 0
	}

	fullBonus := 0
	if fullyCorrect {
		fullBonus = int(math.Round(float64(length) * 0.1))
	}

	return Outcome{
		Tier:             tier,
		CorrectDigits:    correct,
		WrongDigits:      wrong,
		FullyCorrect:     fullyCorrect,
		BaseScore:        base,
		DifficultyBonus:  tier.BonusWeight(),
		FullCorrectBonus: fullBonus,
		RoundScore:       int(math.Round(base + float64(tier.BonusWeight()) + float64(fullBonus))),
	}
}
