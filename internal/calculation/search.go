package calculation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/rpgo/roth-optimizer/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidGrid is returned when a search grid has no cells to evaluate.
var ErrInvalidGrid = errors.New("invalid search grid")

// GridSearcher evaluates every strategy in a SearchGrid and ranks them.
type GridSearcher struct {
	Engine  *CalculationEngine
	Workers int // maximum concurrent simulations; <= 0 uses GOMAXPROCS
}

// NewGridSearcher creates a searcher backed by engine.
func NewGridSearcher(engine *CalculationEngine) *GridSearcher {
	return &GridSearcher{Engine: engine}
}

// Enumerate lists the grid's strategies in search order: ages ascending, and
// amounts ascending within each age.
func Enumerate(grid domain.SearchGrid) []domain.Strategy {
	amounts := grid.Amounts()
	var out []domain.Strategy
	for age := grid.AgeMin; age <= grid.AgeMax; age++ {
		for _, amount := range amounts {
			out = append(out, domain.NewStrategy(age, amount))
		}
	}
	return out
}

// ValidateGrid checks that the grid has at least one cell and that every start
// age precedes required distributions.
func ValidateGrid(grid domain.SearchGrid, params domain.SimulationParameters) error {
	if !grid.AmountStep.IsPositive() {
		return fmt.Errorf("%w: amount step must be positive", ErrInvalidGrid)
	}
	if grid.AmountMin.IsNegative() {
		return fmt.Errorf("%w: minimum amount cannot be negative", ErrInvalidGrid)
	}
	if grid.AmountMin.GreaterThan(grid.AmountMax) {
		return fmt.Errorf("%w: minimum amount %s exceeds maximum %s", ErrInvalidGrid, grid.AmountMin, grid.AmountMax)
	}
	if grid.AgeMin > grid.AgeMax {
		return fmt.Errorf("%w: minimum age %d exceeds maximum %d", ErrInvalidGrid, grid.AgeMin, grid.AgeMax)
	}
	if grid.AgeMin < params.StartAge {
		return fmt.Errorf("%w: minimum age %d is before simulation start age %d", ErrInvalidGrid, grid.AgeMin, params.StartAge)
	}
	if grid.AgeMax >= domain.RMDStartAge {
		return fmt.Errorf("%w: conversions must start before age %d, got %d", ErrInvalidGrid, domain.RMDStartAge, grid.AgeMax)
	}
	return nil
}

// Search runs the engine once per grid cell and returns the cells sorted by
// final balance, best first. Ties keep enumeration order.
func (gs *GridSearcher) Search(ctx context.Context, grid domain.SearchGrid, params domain.SimulationParameters, policies domain.Policies) (*domain.GridSearchResult, error) {
	if err := ValidateGrid(grid, params); err != nil {
		return nil, err
	}
	strategies := Enumerate(grid)
	cells := make([]domain.GridCell, len(strategies))

	workers := gs.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, strategy := range strategies {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			final, err := gs.Engine.FinalBalance(params, strategy, policies)
			if err != nil {
				return fmt.Errorf("simulate %s: %w", strategy, err)
			}
			cells[i] = domain.GridCell{Strategy: strategy, FinalBalance: final}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].FinalBalance.GreaterThan(cells[j].FinalBalance)
	})

	gs.Engine.Logger.Infof("grid search evaluated %d strategies with %d workers", len(cells), workers)
	return &domain.GridSearchResult{Grid: grid, Cells: cells}, nil
}
