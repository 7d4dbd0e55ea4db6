package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

type memoryRecord struct {
	game      *entity.Game
	expiresAt time.Time
}

type memoryGame struct {
	mu    sync.Mutex
	games map[string]memoryRecord
	ttl   time.Duration
	now   func() time.Time

	nextSweep time.Time
}

// NewMemoryGameRepository keeps games in process memory; they vanish after ttl
// without writes, or when the process exits.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return &memoryGame{
		games: make(map[string]memoryRecord),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := that.now()
	that.sweep(now)

	that.games[game.ID] = memoryRecord{
		game:      cloneGame(game),
		expiresAt: now.Add(that.ttl),
	}

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	record, ok := that.games[id]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	if that.ttl > 0 && !that.now().Before(record.expiresAt) {
		delete(that.games, id)
		return nil, apperror.ErrSessionNotFound
	}

	return cloneGame(record.game), nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.games, id)

	return nil
}

// sweep drops expired records, at most once per ttl. Sessions that are never
// read again are released here.
func (that *memoryGame) sweep(now time.Time) {
	if that.ttl <= 0 || now.Before(that.nextSweep) {
		return
	}

	for id, record := range that.games {
		if !now.Before(record.expiresAt) {
			delete(that.games, id)
		}
	}

	that.nextSweep = now.Add(that.ttl)
}

func cloneGame(game *entity.Game) *entity.Game {
	history := make([]entity.HistoryEntry, len(game.History))
	for i, entry := range game.History {
		history[i] = entity.HistoryEntry{Squares: entry.Squares}
		if entry.Position != nil {
			position := *entry.Position
			history[i].Position = &position
		}
	}

	return &entity.Game{
		ID:          game.ID,
		History:     history,
		CurrentMove: game.CurrentMove,
	}
}
