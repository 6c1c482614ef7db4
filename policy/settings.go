package policy

import (
	"fmt"

	"github.com/Skribblers/skribbler/protocol"
)

type Bound struct {
	Min, Max int
}

// SettingBounds is indexed by the protocol.Setting* constants.
var SettingBounds = [protocol.SettingsCount]Bound{
	protocol.SettingLanguage:        {0, 27},
	protocol.SettingMaxPlayers:      {2, 20},
	protocol.SettingDrawTime:        {15, 240},
	protocol.SettingRounds:          {2, 10},
	protocol.SettingWordCount:       {1, 5},
	protocol.SettingMaxHints:        {0, 5},
	protocol.SettingWordMode:        {0, 2},
	protocol.SettingCustomWordsOnly: {0, 1},
}

func DefaultSettings(lang int) protocol.Settings {
	return protocol.Settings{lang, 12, 80, 3, 3, 2, protocol.WordModeNormal, 0}
}

func CheckSetting(index, value int) error {
	if index < 0 || index >= protocol.SettingsCount {
		return fmt.Errorf("%w: %d", ErrUnknownSetting, index)
	}
	b := SettingBounds[index]
	if value < b.Min || value > b.Max {
		return fmt.Errorf("%w: setting %d must be within [%d, %d], got %d", ErrOutOfBounds, index, b.Min, b.Max, value)
	}
	return nil
}

// CheckSettings validates a whole vector, used for configured defaults.
func CheckSettings(s protocol.Settings) error {
	for i, v := range s {
		if err := CheckSetting(i, v); err != nil {
			return err
		}
	}
	return nil
}
