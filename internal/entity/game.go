package entity

import "fmt"

// Mark is the content of a single square.
type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

// BoardSize is the number of squares on the board.
const BoardSize = 9

// WinCombos lists the winning triples: rows, then columns, then diagonals.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Squares is a board snapshot laid out row-major, index = row*3 + col.
type Squares [BoardSize]Mark

// HistoryEntry is a snapshot together with the cell that produced it.
// Position is nil for the initial entry.
type HistoryEntry struct {
	Squares  Squares `json:"squares"`
	Position *int    `json:"position"`
}

// Game is the state of one session: the move history and the move being viewed.
type Game struct {
	ID          string         `json:"id"`
	History     []HistoryEntry `json:"history"`
	CurrentMove int            `json:"current_move"`
}

// NewGame returns a game holding only the empty starting board.
func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		History:     []HistoryEntry{{Squares: Squares{}, Position: nil}},
		CurrentMove: 0,
	}
}

// CalculateWinner returns the mark of the first uniform, non-empty triple in
// WinCombos, or EmptyCell when there is none.
func CalculateWinner(squares Squares) Mark {
	for _, combo := range WinCombos {
		a, b, c := squares[combo[0]], squares[combo[1]], squares[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

// IsValidCell reports whether cell addresses a square on the board.
func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// Coordinates returns the 1-based (col, row) of a cell.
func Coordinates(cell int) (int, int) {
	return cell%3 + 1, cell/3 + 1
}

// FormatPosition renders a cell as "(col, row)".
func FormatPosition(cell int) string {
	col, row := Coordinates(cell)
	return fmt.Sprintf("(%d, %d)", col, row)
}
