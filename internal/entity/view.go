package entity

// Cell is a single square as presented to the player.
type Cell struct {
	Index    int  `json:"index"`
	Mark     Mark `json:"mark"`
	Disabled bool `json:"disabled"`
}

// Move is one button of the history list.
type Move struct {
	Number  int    `json:"number"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// GameView is everything a client needs to draw the game.
type GameView struct {
	ID          string `json:"id"`
	Cells       []Cell `json:"cells"`
	Status      string `json:"status"`
	Winner      Mark   `json:"winner,omitempty"`
	NextPlayer  Mark   `json:"next_player"`
	CurrentMove int    `json:"current_move"`
	Moves       []Move `json:"moves"`
}
