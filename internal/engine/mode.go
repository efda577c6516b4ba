package engine

import (
	"strings"

	"fjacquet/daily-budget/internal/budgeterror"
	"fjacquet/daily-budget/internal/models"
)

// Mode selects the calculation path.
type Mode string

const (
	// ModeAuto picks ModeFull when a history snapshot is supplied, ModeBasic otherwise.
	ModeAuto Mode = "auto"
	// ModeFull redistributes elapsed surplus or deficit over the remaining days.
	ModeFull Mode = "full"
	// ModeBasic allocates temporal budgets only.
	ModeBasic Mode = "basic"
)

// ParseMode parses a mode name; the empty string means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeFull:
		return ModeFull, nil
	case ModeBasic:
		return ModeBasic, nil
	}
	return "", budgeterror.NewInvalidInput("mode", s, "must be auto, full or basic")
}

// resolveMode turns the requested mode into a concrete one. Missing history
// is a precondition checked here, not a failure recovered from later.
func resolveMode(requested Mode, history *models.SpendHistory) (Mode, error) {
	switch requested {
	case "", ModeAuto:
		if history != nil {
			return ModeFull, nil
		}
		return ModeBasic, nil
	case ModeFull:
		if history == nil {
			return "", budgeterror.NewInvalidInput("mode", string(requested), "full mode requires a spending history")
		}
		return ModeFull, nil
	case ModeBasic:
		return ModeBasic, nil
	}
	return "", budgeterror.NewInvalidInput("mode", string(requested), "must be auto, full or basic")
}

func (m Mode) methodology() models.Methodology {
	if m == ModeFull {
		return models.MethodologyFullHistory
	}
	return models.MethodologyFallback
}
