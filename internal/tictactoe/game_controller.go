package tictactoe

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/board"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

// GameController owns the move history of one game and the move being viewed.
type GameController struct {
	game *entity.Game
}

// NewGameController controls game in place.
func NewGameController(game *entity.Game) *GameController {
	return &GameController{game: game}
}

// Game returns the controlled game.
func (that *GameController) Game() *entity.Game {
	return that.game
}

// XIsNext reports whether X places the next mark; X plays on even moves.
func (that *GameController) XIsNext() bool {
	return that.game.CurrentMove%2 == 0
}

// NextPlayer returns the mark placed by the next move.
func (that *GameController) NextPlayer() entity.Mark {
	if that.XIsNext() {
		return entity.PlayerX
	}
	return entity.PlayerO
}

// CurrentSquares returns the snapshot at the current move.
func (that *GameController) CurrentSquares() entity.Squares {
	return that.game.History[that.game.CurrentMove].Squares
}

// ApplyMove marks cell for the next player on top of the current snapshot.
// Moves after the current one are dropped. Emptiness of the cell and an
// existing winner are not checked here; the board gates those clicks.
func (that *GameController) ApplyMove(cell int) error {
	if !entity.IsValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	squares := that.CurrentSquares()
	squares[cell] = that.NextPlayer()

	position := cell
	nextHistory := slices.Clone(that.game.History[:that.game.CurrentMove+1])
	nextHistory = append(nextHistory, entity.HistoryEntry{Squares: squares, Position: &position})

	that.game.History, that.game.CurrentMove = nextHistory, len(nextHistory)-1

	return nil
}

// JumpTo makes move the current one. The history itself is left untouched.
func (that *GameController) JumpTo(move int) error {
	if move < 0 || move >= len(that.game.History) {
		return fmt.Errorf("%w: move %d of %d", apperror.ErrMoveOutOfRange, move, len(that.game.History))
	}

	that.game.CurrentMove = move

	return nil
}

// MoveLabel returns the caption of the history button for move.
func (that *GameController) MoveLabel(move int) string {
	if move == 0 {
		return "Go to game start"
	}

	label := fmt.Sprintf("Go to move #%d, Position: ", move)
	if move < len(that.game.History) && that.game.History[move].Position != nil {
		label += entity.FormatPosition(*that.game.History[move].Position)
	}

	return label
}

// Board returns the board for the current snapshot, wired to ApplyMove.
func (that *GameController) Board() *board.Board {
	return board.New(that.CurrentSquares(), that.XIsNext(), that.ApplyMove)
}

// Moves returns one history button per entry.
func (that *GameController) Moves() []entity.Move {
	moves := make([]entity.Move, 0, len(that.game.History))
	for move := range that.game.History {
		moves = append(moves, entity.Move{
			Number:  move,
			Label:   that.MoveLabel(move),
			Current: move == that.game.CurrentMove,
		})
	}

	return moves
}

// View renders the whole game for a client.
func (that *GameController) View() *entity.GameView {
	b := that.Board()

	return &entity.GameView{
		ID:          that.game.ID,
		Cells:       b.Cells(),
		Status:      b.Status(),
		Winner:      b.Winner(),
		NextPlayer:  b.NextPlayer(),
		CurrentMove: that.game.CurrentMove,
		Moves:       that.Moves(),
	}
}
