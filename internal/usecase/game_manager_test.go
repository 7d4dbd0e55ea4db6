package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/testing/suite"
)

const sessionID = "3b241101-e2bb-4255-8caf-4136c566a962"

var errRedisDown = errors.New("redis down")

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func newManager(t *testing.T) *GameManager {
	t.Helper()
	return NewGameManager(suite.NewLogger(), repository.NewMemoryGameRepository(time.Hour))
}

func play(t *testing.T, manager *GameManager, cells ...int) *entity.GameView {
	t.Helper()

	var view *entity.GameView
	for _, cell := range cells {
		var err error
		view, err = manager.Play(context.Background(), sessionID, cell)
		require.NoError(t, err)
	}

	return view
}

func marks(view *entity.GameView) []entity.Mark {
	result := make([]entity.Mark, 0, len(view.Cells))
	for _, cell := range view.Cells {
		result = append(result, cell.Mark)
	}
	return result
}

func TestGameManager_GetOrCreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a session when the id is empty", func(t *testing.T) {
		// Given: a manager without sessions
		manager := newManager(t)

		// When: a client arrives without a session
		view, err := manager.GetOrCreateGame(ctx, "")

		// Then: a new empty game with a fresh ID is returned
		require.NoError(t, err)
		assert.NotEmpty(t, view.ID)
		assert.Equal(t, "Next player: X", view.Status)
		assert.Len(t, view.Moves, 1)
	})

	t.Run("Returns the stored game", func(t *testing.T) {
		// Given: a session with one move
		manager := newManager(t)
		play(t, manager, 4)

		// When: the game is fetched again
		view, err := manager.GetOrCreateGame(ctx, sessionID)

		// Then: the move is still there
		require.NoError(t, err)
		assert.Equal(t, sessionID, view.ID)
		assert.Equal(t, entity.PlayerX, view.Cells[4].Mark)
		assert.Len(t, view.Moves, 2)
	})

	t.Run("Returns error if the repository fails", func(t *testing.T) {
		// Given: a repository that cannot be reached
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, sessionID).Return(nil, errRedisDown).Once()
		manager := NewGameManager(suite.NewLogger(), repo)

		// When: fetching the game
		view, err := manager.GetOrCreateGame(ctx, sessionID)

		// Then: the error is passed on
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, view)
		repo.AssertExpectations(t)
	})

	t.Run("Stores a new game for an unknown session", func(t *testing.T) {
		// Given: a repository without the session
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, sessionID).Return(nil, apperror.ErrSessionNotFound).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.MatchedBy(func(game *entity.Game) bool {
			return game.ID == sessionID && len(game.History) == 1
		})).Return(nil).Once()
		manager := NewGameManager(suite.NewLogger(), repo)

		// When: fetching the game
		view, err := manager.GetOrCreateGame(ctx, sessionID)

		// Then: a fresh game is saved under the same ID
		require.NoError(t, err)
		assert.Equal(t, sessionID, view.ID)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Top row win", func(t *testing.T) {
		// Given: a manager
		manager := newManager(t)

		// When: clicks land on 0, 3, 1, 4, 2
		view := play(t, manager, 0, 3, 1, 4, 2)

		// Then: X wins on the top row
		x, o, e := entity.PlayerX, entity.PlayerO, entity.EmptyCell
		assert.Equal(t, []entity.Mark{x, x, x, o, o, e, e, e, e}, marks(view))
		assert.Equal(t, entity.PlayerX, view.Winner)
		assert.Equal(t, "Winner: X", view.Status)
	})

	t.Run("Click after a win changes nothing", func(t *testing.T) {
		// Given: X already won
		manager := newManager(t)
		before := play(t, manager, 0, 3, 1, 4, 2)

		// When: cell 5 is clicked
		view, err := manager.Play(ctx, sessionID, 5)

		// Then: the click is reported as ignored and the game is unchanged
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, before, view)

		stored, err := manager.GetOrCreateGame(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, before, stored)
	})

	t.Run("Click on an occupied square changes nothing", func(t *testing.T) {
		manager := newManager(t)
		before := play(t, manager, 4)

		view, err := manager.Play(ctx, sessionID, 4)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, before, view)
	})

	t.Run("Invalid cell is an error", func(t *testing.T) {
		manager := newManager(t)

		view, err := manager.Play(ctx, sessionID, 42)

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
		assert.Nil(t, view)
	})

	t.Run("Returns error if saving fails", func(t *testing.T) {
		// Given: a repository that fails on writes
		repo := &mockGameRepo{}
		repo.On("GetByID", mock.Anything, sessionID).Return(entity.NewGame(sessionID), nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()
		manager := NewGameManager(suite.NewLogger(), repo)

		// When: a move is played
		view, err := manager.Play(ctx, sessionID, 0)

		// Then: the error is passed on
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, view)
		repo.AssertExpectations(t)
	})
}

func TestGameManager_JumpTo(t *testing.T) {
	ctx := context.Background()

	t.Run("Playing from the past truncates the future", func(t *testing.T) {
		// Given: three moves were played
		manager := newManager(t)
		play(t, manager, 0, 3, 1)

		// When: jumping to move 1 and playing cell 5
		_, err := manager.JumpTo(ctx, sessionID, 1)
		require.NoError(t, err)
		view := play(t, manager, 5)

		// Then: the history ends with the new move at position 2
		require.Len(t, view.Moves, 3)
		assert.Equal(t, 2, view.CurrentMove)
		assert.Equal(t, "Go to move #2, Position: (3, 2)", view.Moves[2].Label)
		assert.Equal(t, entity.PlayerO, view.Cells[5].Mark)
		assert.Equal(t, entity.EmptyCell, view.Cells[1].Mark)
	})

	t.Run("Jumping only moves the pointer", func(t *testing.T) {
		// Given: two moves
		manager := newManager(t)
		play(t, manager, 4, 0)

		// When: jumping to the start
		view, err := manager.JumpTo(ctx, sessionID, 0)

		// Then: the empty board is shown and the history is kept
		require.NoError(t, err)
		assert.Equal(t, 0, view.CurrentMove)
		assert.Len(t, view.Moves, 3)
		assert.Equal(t, entity.EmptyCell, view.Cells[4].Mark)
		assert.Equal(t, "Next player: X", view.Status)
	})

	t.Run("Out of range jump is rejected", func(t *testing.T) {
		manager := newManager(t)
		play(t, manager, 4)

		view, err := manager.JumpTo(ctx, sessionID, 5)

		require.ErrorIs(t, err, apperror.ErrMoveOutOfRange)
		assert.Equal(t, 1, view.CurrentMove)
	})
}

func TestGameManager_Restart(t *testing.T) {
	ctx := context.Background()

	// Given: a game with moves
	manager := newManager(t)
	play(t, manager, 4, 0, 8)

	// When: the game is restarted
	view, err := manager.Restart(ctx, sessionID)

	// Then: the history holds only the empty board
	require.NoError(t, err)
	assert.Equal(t, sessionID, view.ID)
	assert.Len(t, view.Moves, 1)

	stored, err := manager.GetOrCreateGame(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, view, stored)
}
