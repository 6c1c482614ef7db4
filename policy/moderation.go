package policy

// VotesRequired is the vote-kick quorum for a room of the given size.
func VotesRequired(rosterSize int) int {
	return rosterSize/2 + 1
}

// MinPlayersToStart is the roster size needed before any turn can begin.
const MinPlayersToStart = 2

func CanStart(rosterSize int) error {
	if rosterSize < MinPlayersToStart {
		return ErrNotEnoughPlayers
	}
	return nil
}
