package blackjack

import (
	"fmt"
	"strings"
)

// Action is a player decision on the active hand
type Action string

const (
	ActionHit        Action = "HIT"
	ActionStand      Action = "STAND"
	ActionDoubleDown Action = "DOUBLE_DOWN"
	ActionSplit      Action = "SPLIT"
)

// Label returns the menu text for the action
func (a Action) Label() string {
	switch a {
	case ActionHit:
		return "Hit"
	case ActionStand:
		return "Stand"
	case ActionDoubleDown:
		return "Double Down"
	case ActionSplit:
		return "Split"
	}
	return string(a)
}

// ParseAction accepts the action name or its menu label, case-insensitively
func ParseAction(s string) (Action, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	switch Action(normalized) {
	case ActionHit, ActionStand, ActionDoubleDown, ActionSplit:
		return Action(normalized), nil
	case "DOUBLE":
		return ActionDoubleDown, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}
