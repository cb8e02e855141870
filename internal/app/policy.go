package app

import (
	"fmt"

	"github.com/dkeye/voicehub/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a connection whose send buffer is full.
type Policy interface {
	OnBackPressure(room string, conn domain.ConnID) BackpressureAction
}

// SimplePolicy applies the same action to every slow connection.
type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(string, domain.ConnID) BackpressureAction {
	return p.Action
}

// PolicyFromString maps the config value ("drop" or "kick").
func PolicyFromString(s string) (Policy, error) {
	switch s {
	case "", "drop":
		return SimplePolicy{Action: DropFrame}, nil
	case "kick":
		return SimplePolicy{Action: KickMember}, nil
	}
	return nil, fmt.Errorf("unknown backpressure policy %q", s)
}
