package selector

import (
	"errors"
	"fmt"

	"github.com/borgmon/zooom/pkg/models"
)

var (
	ErrNoCandidates       = errors.New("no meeting found")
	ErrSelectionCancelled = errors.New("selection cancelled")
	ErrSelectionInput     = errors.New("cannot read selection")
)

// Strategy picks one meeting out of several active candidates. It returns
// the index of the chosen candidate, ErrSelectionCancelled when the user
// declines, or an error wrapping ErrSelectionInput when no answer could be read.
type Strategy interface {
	Choose(candidates []models.Meeting) (int, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(candidates []models.Meeting) (int, error)

func (f StrategyFunc) Choose(candidates []models.Meeting) (int, error) {
	return f(candidates)
}

// First always takes the first candidate in pool order.
type First struct{}

func (First) Choose([]models.Meeting) (int, error) {
	return 0, nil
}

// Select returns the single meeting to join. An empty pool yields
// ErrNoCandidates and a single candidate is returned without consulting the
// strategy; otherwise the strategy is called exactly once.
func Select(candidates []models.Meeting, strategy Strategy) (models.Meeting, error) {
	switch len(candidates) {
	case 0:
		return models.Meeting{}, ErrNoCandidates
	case 1:
		return candidates[0], nil
	}

	idx, err := strategy.Choose(candidates)
	if err != nil {
		return models.Meeting{}, err
	}
	if idx < 0 || idx >= len(candidates) {
		return models.Meeting{}, fmt.Errorf("%w: choice %d out of range", ErrSelectionInput, idx+1)
	}
	return candidates[idx], nil
}
