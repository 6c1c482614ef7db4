package policy

const (
	maxGuessPoints  = 500
	minGuessPoints  = 50
	orderPenalty    = 25
	timeWeightShare = 350
)

// GuessPoints scores the order-th correct guess (0 based) of a turn made with
// remaining of total seconds left. It never increases with order and never
// decreases with remaining time.
func GuessPoints(order, remaining, total int) int {
	if total <= 0 {
		total = 1
	}
	remaining = min(max(remaining, 0), total)
	order = max(order, 0)

	points := maxGuessPoints - timeWeightShare + timeWeightShare*remaining/total - orderPenalty*order
	return max(points, minGuessPoints)
}

// DrawerPoints gives the drawer the rounded mean of what the guessers earned,
// spread over every participant who could have guessed.
func DrawerPoints(guesserPoints []int, possibleGuessers int) int {
	if possibleGuessers <= 0 || len(guesserPoints) == 0 {
		return 0
	}
	sum := 0
	for _, p := range guesserPoints {
		sum += p
	}
	return (sum + possibleGuessers/2) / possibleGuessers
}
