package policy

import (
	"testing"

	"github.com/Skribblers/skribbler/protocol"
	"github.com/stretchr/testify/assert"
)

func TestCheckSetting(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		index    int
		value    int
		expected error
	}{
		{"language lower bound", protocol.SettingLanguage, 0, nil},
		{"language upper bound", protocol.SettingLanguage, 27, nil},
		{"language above", protocol.SettingLanguage, 28, ErrOutOfBounds},
		{"one player room", protocol.SettingMaxPlayers, 1, ErrOutOfBounds},
		{"twenty players", protocol.SettingMaxPlayers, 20, nil},
		{"draw time too short", protocol.SettingDrawTime, 14, ErrOutOfBounds},
		{"draw time max", protocol.SettingDrawTime, 240, nil},
		{"single round", protocol.SettingRounds, 1, ErrOutOfBounds},
		{"no words offered", protocol.SettingWordCount, 0, ErrOutOfBounds},
		{"no hints", protocol.SettingMaxHints, 0, nil},
		{"unknown word mode", protocol.SettingWordMode, 3, ErrOutOfBounds},
		{"custom only flag", protocol.SettingCustomWordsOnly, 1, nil},
		{"negative index", -1, 0, ErrUnknownSetting},
		{"index past the vector", protocol.SettingsCount, 0, ErrUnknownSetting},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckSetting(tc.index, tc.value)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestDefaultSettingsAreInBounds(t *testing.T) {
	for lang := 0; lang <= 27; lang++ {
		assert.NoError(t, CheckSettings(DefaultSettings(lang)))
	}
}

func TestVotesRequired(t *testing.T) {
	assert.Equal(t, 2, VotesRequired(2))
	assert.Equal(t, 2, VotesRequired(3))
	assert.Equal(t, 3, VotesRequired(4))
	assert.Equal(t, 3, VotesRequired(5))
	assert.Equal(t, 11, VotesRequired(20))
}

func TestCheckDrawBatch(t *testing.T) {
	assert.NoError(t, CheckDrawBatch(MaxDrawBatch))
	assert.ErrorIs(t, CheckDrawBatch(MaxDrawBatch+1), ErrCapacityExceeded)
}

func TestGuessPointsMonotonicity(t *testing.T) {
	t.Parallel()
	total := 80
	for remaining := 0; remaining <= total; remaining++ {
		for order := 0; order < 20; order++ {
			p := GuessPoints(order, remaining, total)
			assert.GreaterOrEqual(t, p, GuessPoints(order+1, remaining, total), "later guess outscored earlier one")
			if remaining > 0 {
				assert.GreaterOrEqual(t, p, GuessPoints(order, remaining-1, total), "guessing with less time outscored more time")
			}
		}
	}
	// an earlier guess always has at least as much time left as a later one
	assert.GreaterOrEqual(t, GuessPoints(0, 70, total), GuessPoints(1, 40, total))
	assert.Equal(t, 500, GuessPoints(0, total, total))
	assert.Equal(t, 50, GuessPoints(19, 0, total))
}

func TestDrawerPoints(t *testing.T) {
	assert.Equal(t, 0, DrawerPoints(nil, 3))
	assert.Equal(t, 0, DrawerPoints([]int{100}, 0))
	assert.Equal(t, 150, DrawerPoints([]int{300}, 2))
	assert.Equal(t, 267, DrawerPoints([]int{500, 300}, 3))
}

func TestMatchGuess(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		guess    string
		word     string
		expected GuessMatch
	}{
		{"apple", "apple", GuessExact},
		{"  APPLE ", "apple", GuessExact},
		{"éclair", "eclair", GuessExact},
		{"ice   cream", "ice cream", GuessExact},
		{"aple", "apple", GuessNear},
		{"applle", "apple", GuessNear},
		{"appel", "apple", GuessMiss},
		{"apply", "apple", GuessNear},
		{"ca", "cat", GuessMiss},
		{"banana", "apple", GuessMiss},
		{"", "apple", GuessMiss},
	}

	for _, tc := range testCases {
		t.Run(tc.guess, func(t *testing.T) {
			assert.Equal(t, tc.expected, MatchGuess(tc.guess, tc.word))
		})
	}
}

func TestTextHelpers(t *testing.T) {
	long := ""
	for range 120 {
		long += "é"
	}
	assert.Len(t, []rune(TruncateText(long)), MaxTextLength)
	assert.Equal(t, "abcdefghijklmnop", SanitizeName("  abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "", SanitizeName("   "))
	assert.Equal(t, []int{3, 5}, WordLengths("ice cream"))
	assert.Equal(t, []string{"car", "big house", "tree"}, ParseCustomWords("car, big   house,,Car , tree, "))
}

func TestUseCustomOnly(t *testing.T) {
	assert.False(t, UseCustomOnly(0, 50))
	assert.False(t, UseCustomOnly(1, CustomPoolThreshold-1))
	assert.True(t, UseCustomOnly(1, CustomPoolThreshold))
}
