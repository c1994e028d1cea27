package app

import "github.com/eduhub/classroom/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a subscriber whose send buffer is full.
type Policy interface {
	OnBackpressure(sess *core.ClientSession) BackpressureAction
}

// SimplePolicy kicks slow subscribers; closing their transport lets the
// normal disconnect path clean up presence and room membership.
type SimplePolicy struct{}

func (SimplePolicy) OnBackpressure(sess *core.ClientSession) BackpressureAction {
	return KickMember
}
