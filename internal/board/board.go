package board

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

// PlayFunc receives the cell the next player wants to mark.
type PlayFunc func(cell int) error

// Board presents one snapshot and decides which clicks reach the controller.
type Board struct {
	squares entity.Squares
	xIsNext bool
	onPlay  PlayFunc
}

// New returns a board for squares; onPlay receives every accepted click.
func New(squares entity.Squares, xIsNext bool, onPlay PlayFunc) *Board {
	return &Board{
		squares: squares,
		xIsNext: xIsNext,
		onPlay:  onPlay,
	}
}

// Click forwards a click on cell to the controller. Clicks on an occupied
// square, or on a board that already has a winner, change nothing; the
// returned error only says why.
func (that *Board) Click(cell int) error {
	if !entity.IsValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.squares[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	if entity.CalculateWinner(that.squares) != entity.EmptyCell {
		return apperror.ErrGameFinished
	}

	return that.onPlay(cell)
}

// Winner returns the winning mark of the shown snapshot, if any.
func (that *Board) Winner() entity.Mark {
	return entity.CalculateWinner(that.squares)
}

// NextPlayer returns the mark that a click would place.
func (that *Board) NextPlayer() entity.Mark {
	if that.xIsNext {
		return entity.PlayerX
	}
	return entity.PlayerO
}

// Status returns the line shown above the grid.
func (that *Board) Status() string {
	if winner := that.Winner(); winner != entity.EmptyCell {
		return "Winner: " + string(winner)
	}

	return "Next player: " + string(that.NextPlayer())
}

// Cells returns the nine squares in row-major order.
func (that *Board) Cells() []entity.Cell {
	finished := that.Winner() != entity.EmptyCell

	cells := make([]entity.Cell, 0, len(that.squares))
	for i, mark := range that.squares {
		cells = append(cells, entity.Cell{
			Index:    i,
			Mark:     mark,
			Disabled: finished || mark != entity.EmptyCell,
		})
	}

	return cells
}
