package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

func (that *Server) handleState(ctx context.Context, conn *connection, msg *Message) error {
	view, err := that.game.GetOrCreateGame(ctx, conn.sessionID)
	return that.reply(conn, msg.Action, view, err)
}

func (that *Server) handlePlay(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil || payload.Cell == nil {
		return conn.sendError(msg.Action, "cell is required")
	}

	view, err := that.game.Play(ctx, conn.sessionID, *payload.Cell)
	return that.reply(conn, msg.Action, view, err)
}

func (that *Server) handleJump(ctx context.Context, conn *connection, msg *Message) error {
	payload, err := decodePayload(msg)
	if err != nil || payload.Move == nil {
		return conn.sendError(msg.Action, "move is required")
	}

	view, err := that.game.JumpTo(ctx, conn.sessionID, *payload.Move)
	return that.reply(conn, msg.Action, view, err)
}

func (that *Server) handleNewGame(ctx context.Context, conn *connection, msg *Message) error {
	view, err := that.game.Restart(ctx, conn.sessionID)
	return that.reply(conn, msg.Action, view, err)
}

// reply sends the view, or the reason the request was refused. The connection
// adopts the session of every view it receives.
func (that *Server) reply(conn *connection, action string, view *entity.GameView, err error) error {
	if view != nil {
		conn.sessionID = view.ID
	}

	if err != nil && !isClientError(err) {
		if sendErr := conn.sendError(action, "internal server error"); sendErr != nil {
			return errors.Join(err, sendErr)
		}

		return fmt.Errorf("failed to %s: %w", action, err)
	}

	payload := ResponsePayload{Game: view}
	if err != nil {
		payload.Error = err.Error()
	}

	return conn.sendMessage(action, payload)
}

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payload, nil
}

func isClientError(err error) bool {
	return errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, apperror.ErrGameFinished) ||
		errors.Is(err, apperror.ErrInvalidCell) ||
		errors.Is(err, apperror.ErrMoveOutOfRange)
}
