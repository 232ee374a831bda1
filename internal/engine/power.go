package engine

import "fmt"

// PowerBowls holds a player's power tokens. Gaining power moves tokens
// forward (I to II, then II to III); spending moves them from III back to I.
// Tokens are never created, only destroyed by overflow and burning.
type PowerBowls struct {
	I   int `json:"i"`
	II  int `json:"ii"`
	III int `json:"iii"`
}

// Total returns the number of tokens across all bowls.
func (b PowerBowls) Total() int {
	return b.I + b.II + b.III
}

func (b PowerBowls) String() string {
	return fmt.Sprintf("%d/%d/%d", b.I, b.II, b.III)
}

// Gain moves amount tokens forward, draining the lowest non-empty bowl
// first. Power left over once every token sits in bowl III converts to
// coins at two power per coin, which Gain returns.
//
// An odd leftover unit is cashed in: one token is pulled back from III to
// II and pays out a full coin. That can leave a token stranded in II when
// keeping it in III would have been better; callers rely on this exact
// split, so it is not optimised. With bowl III empty there is no token to
// pull back, so the odd unit is dropped and no coin is minted. The bowls
// never go negative.
func (b *PowerBowls) Gain(amount int) (coins int) {
	if amount < 0 {
		fail(ErrPreconditionViolation, "gain %d power", amount)
	}
	remaining := amount

	move := min(b.I, remaining)
	b.I -= move
	b.II += move
	remaining -= move
	if remaining == 0 {
		return 0
	}

	assert(b.I == 0, "bowl I holds %d tokens after draining", b.I)
	move = min(b.II, remaining)
	b.II -= move
	b.III += move
	remaining -= move
	if remaining == 0 {
		return 0
	}

	assert(b.II == 0, "bowl II holds %d tokens after draining", b.II)
	coins = remaining / 2
	// With no token in III there is nothing to un-gain; the unit is lost.
	if remaining%2 == 1 && b.III > 0 {
		b.III--
		b.II++
		coins++
	}
	return coins
}

// CanUse reports whether amount power can be spent, counting tokens that
// would have to be burned out of bowl II.
func (b PowerBowls) CanUse(amount int) bool {
	if amount < 0 {
		fail(ErrPreconditionViolation, "use %d power", amount)
	}
	return b.III+b.II/2 >= amount
}

// Use spends amount power. Bowl III is spent first (III to I); the rest is
// burned out of bowl II at two tokens per unit, one landing in I and one
// leaving the game.
func (b *PowerBowls) Use(amount int) {
	if amount < 0 {
		fail(ErrPreconditionViolation, "use %d power", amount)
	}
	if !b.CanUse(amount) {
		fail(ErrInvalidAction, "use %d power from %s", amount, b)
	}
	remaining := amount

	spend := min(b.III, remaining)
	b.III -= spend
	b.I += spend
	remaining -= spend

	burn := min(remaining, b.II/2)
	b.II -= 2 * burn
	b.I += burn
	remaining -= burn

	assert(remaining == 0, "%d power unaccounted for after burning", remaining)
}
