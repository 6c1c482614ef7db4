package protocol

const SettingsCount = 8

// Settings is the numeric settings vector of a room, indexed by the Setting* constants.
type Settings [SettingsCount]int

const (
	SettingLanguage = iota
	SettingMaxPlayers
	SettingDrawTime
	SettingRounds
	SettingWordCount
	SettingMaxHints
	SettingWordMode
	SettingCustomWordsOnly
)

const (
	WordModeNormal = iota
	WordModeHidden
	WordModeCombination
)
