package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

// GameManager runs every session's game. Operations are applied one at a
// time, in the order they arrive.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
	}
}

// GetOrCreateGame returns the game of session id, starting a new one when the
// session is unknown. An empty or malformed id gets a fresh session ID; the
// returned view carries the ID to use from then on.
func (that *GameManager) GetOrCreateGame(ctx context.Context, id string) (*entity.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	controller, err := that.getOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	return controller.View(), nil
}

// Play clicks cell on the board currently shown to session id. A click the
// board ignores returns the unchanged view together with the reason.
func (that *GameManager) Play(ctx context.Context, id string, cell int) (*entity.GameView, error) {
	log := that.logger.With("method", "Play", "session", id, "cell", cell)

	that.mu.Lock()
	defer that.mu.Unlock()

	controller, err := that.getOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = controller.Board().Click(cell); err != nil {
		if isIgnoredClick(err) {
			log.Debug("click ignored", "reason", err)
			return controller.View(), err
		}

		return nil, fmt.Errorf("failed to play cell %d: %w", cell, err)
	}

	if err = that.updateGame(ctx, controller.Game()); err != nil {
		return nil, err
	}

	log.Debug("move applied", "move", controller.Game().CurrentMove)

	return controller.View(), nil
}

// JumpTo shows move of session id's history.
func (that *GameManager) JumpTo(ctx context.Context, id string, move int) (*entity.GameView, error) {
	log := that.logger.With("method", "JumpTo", "session", id, "move", move)

	that.mu.Lock()
	defer that.mu.Unlock()

	controller, err := that.getOrCreate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = controller.JumpTo(move); err != nil {
		log.Debug("jump rejected", "reason", err)
		return controller.View(), err
	}

	if err = that.updateGame(ctx, controller.Game()); err != nil {
		return nil, err
	}

	return controller.View(), nil
}

// Restart replaces the history of session id with a fresh game.
func (that *GameManager) Restart(ctx context.Context, id string) (*entity.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if !pkg.IsValidSessionID(id) {
		id = pkg.GenerateNewSessionID()
	}

	game := entity.NewGame(id)
	if err := that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game restarted", "session", id)

	return tictactoe.NewGameController(game).View(), nil
}

func (that *GameManager) getOrCreate(ctx context.Context, id string) (*tictactoe.GameController, error) {
	if pkg.IsValidSessionID(id) {
		game, err := that.gameRepo.GetByID(ctx, id)
		if err == nil {
			return tictactoe.NewGameController(game), nil
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to get game: %w", err)
		}
	} else {
		id = pkg.GenerateNewSessionID()
	}

	game := entity.NewGame(id)
	if err := that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.logger.Info("game created", "session", id)

	return tictactoe.NewGameController(game), nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

// isIgnoredClick reports whether the board turned a click into a no-op.
func isIgnoredClick(err error) bool {
	return errors.Is(err, apperror.ErrCellOccupied) || errors.Is(err, apperror.ErrGameFinished)
}
