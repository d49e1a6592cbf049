package game

import (
	"raspadinha/models"
)

const (
	// GridSize is the number of cells on a scratch card.
	GridSize = 9

	// WinningCellCount is how many matching cells represent a win.
	WinningCellCount = 3

	// maxFillerRepeat caps how often a filler value may appear, so filler
	// cells can never form an accidental second three-of-a-kind.
	maxFillerRepeat = 2
)

// baseDisplayPool holds the plausible display denominations, in reais. Purely
// cosmetic; it carries no information about the card's real economics.
var baseDisplayPool = []int64{
	5, 10, 20, 50, 100, 200, 500, 800, 1000, 1500,
	2000, 5000, 10000, 15000, 25000, 50000,
}

// defaultPool backs the synthesizer when a caller hands it an empty pool.
var defaultPool = []int64{10, 20, 50, 100, 500, 1000}

// WinDisplayValue returns the value in reais shown on the matching cells: the
// display prize when configured, otherwise the cash payout with a floor of
// R$ 100. A configured prize below one real still renders as R$ 1.
func WinDisplayValue(card *models.Card) int64 {
	if card.DisplayPrize > 0 {
		v := card.DisplayPrize / 100
		if v < 1 {
			return 1
		}
		return v
	}
	payout := CashPayout(card) / 100
	if payout < 100 {
		return 100
	}
	return payout
}

// DisplayPool assembles the candidate values for a card's grid: the base
// denominations plus the card's own display and payout figures, deduplicated.
// On a loss the payout value is appended once more, nudging its frequency up
// the way the original display logic did.
func DisplayPool(card *models.Card, winner bool, winDisplay int64) []int64 {
	payout := CashPayout(card) / 100

	seen := make(map[int64]bool)
	pool := make([]int64, 0, len(baseDisplayPool)+3)
	for _, v := range baseDisplayPool {
		if !seen[v] {
			seen[v] = true
			pool = append(pool, v)
		}
	}
	for _, v := range []int64{winDisplay, payout} {
		if v > 0 && !seen[v] {
			seen[v] = true
			pool = append(pool, v)
		}
	}
	if !winner && payout > 0 {
		pool = append(pool, payout)
	}
	return pool
}

// BuildGrid synthesizes the 9-cell display grid for an already-resolved
// outcome. On a win exactly WinningCellCount cells carry winDisplayValue and
// their 1-based positions are returned; on a loss no value appears more than
// twice and the returned positions are empty. The grid is computed after the
// outcome is fixed and can never change it.
func BuildGrid(winner bool, winDisplayValue int64, pool []int64) ([]int64, []int) {
	if len(pool) == 0 {
		pool = defaultPool
	}

	grid := make([]int64, GridSize)
	filled := make([]bool, GridSize)
	var winningCells []int

	counts := make(map[int64]int)

	if winner {
		winValue := winDisplayValue
		if winValue == 0 {
			winValue = pool[0]
		}

		positions := make([]int64, GridSize)
		for i := range positions {
			positions[i] = int64(i)
		}
		secureShuffle(positions)

		winningCells = make([]int, 0, WinningCellCount)
		for _, idx := range positions[:WinningCellCount] {
			winningCells = append(winningCells, int(idx)+1)
			grid[idx] = winValue
			filled[idx] = true
		}

		for i := 0; i < GridSize; i++ {
			if filled[i] {
				continue
			}
			v := pickFiller(pool, counts, winValue)
			grid[i] = v
			counts[v]++
		}
	} else {
		for i := 0; i < GridSize; i++ {
			v := pickFiller(pool, counts, 0)
			grid[i] = v
			counts[v]++
		}
	}

	return grid, winningCells
}

// pickFiller draws a filler value from a shuffled copy of the pool, skipping
// the winning value and anything already used maxFillerRepeat times. When the
// pool is too small to honor the repeat cap for all 9 cells, it relaxes to
// the least-used eligible candidate so synthesis always terminates.
func pickFiller(pool []int64, counts map[int64]int, winValue int64) int64 {
	shuffled := shuffledCopy(pool)

	for _, candidate := range shuffled {
		if candidate == winValue {
			continue
		}
		if counts[candidate] < maxFillerRepeat {
			return candidate
		}
	}

	// Saturated pool: fall back to the least-used candidate, still avoiding
	// the winning value if any alternative exists.
	best := shuffled[0]
	bestCount := -1
	for _, candidate := range shuffled {
		if candidate == winValue && len(shuffled) > 1 {
			continue
		}
		if bestCount == -1 || counts[candidate] < bestCount {
			best = candidate
			bestCount = counts[candidate]
		}
	}
	return best
}
