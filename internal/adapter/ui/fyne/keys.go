package fyne

import (
	fyneapp "fyne.io/fyne/v2"

	"github.com/tejashwikalptaru/eqplayer/internal/domain"
)

// playerKeys maps Fyne key names to the keys the player binds.
var playerKeys = map[fyneapp.KeyName]domain.Key{
	fyneapp.KeySpace: domain.KeySpace,
	fyneapp.KeyLeft:  domain.KeyLeft,
	fyneapp.KeyRight: domain.KeyRight,
	fyneapp.KeyUp:    domain.KeyUp,
	fyneapp.KeyDown:  domain.KeyDown,
}

func mapKey(name fyneapp.KeyName) (domain.Key, bool) {
	key, ok := playerKeys[name]
	return key, ok
}
