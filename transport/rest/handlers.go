package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

type response struct {
	Game  *entity.GameView `json:"game,omitempty"`
	Error string           `json:"error,omitempty"`
}

func (that *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePage")

	view, err := that.game.GetOrCreateGame(r.Context(), that.sessionID(r))
	if err != nil {
		log.Error("failed to get game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.setSessionCookie(w, view.ID)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err = that.page.Execute(w, view); err != nil {
		log.Error("failed to render page", "error", err)
	}
}

func (that *Server) handlePagePlay(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePagePlay")

	cell, err := pathInt(r, "cell")
	if err != nil {
		http.Error(w, "invalid cell", http.StatusBadRequest)
		return
	}

	view, err := that.game.Play(r.Context(), that.sessionID(r), cell)
	if err != nil && !isClientError(err) {
		log.Error("failed to play", "cell", cell, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if view != nil {
		that.setSessionCookie(w, view.ID)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *Server) handlePageJump(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePageJump")

	move, err := pathInt(r, "move")
	if err != nil {
		http.Error(w, "invalid move", http.StatusBadRequest)
		return
	}

	view, err := that.game.JumpTo(r.Context(), that.sessionID(r), move)
	if err != nil && !isClientError(err) {
		log.Error("failed to jump", "move", move, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if view != nil {
		that.setSessionCookie(w, view.ID)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *Server) handlePageRestart(w http.ResponseWriter, r *http.Request) {
	view, err := that.game.Restart(r.Context(), that.sessionID(r))
	if err != nil {
		that.logger.Error("failed to restart game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.setSessionCookie(w, view.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	view, err := that.game.GetOrCreateGame(r.Context(), that.sessionID(r))
	that.writeGame(w, view, err)
}

func (that *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	cell, err := pathInt(r, "cell")
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, response{Error: "invalid cell"})
		return
	}

	view, err := that.game.Play(r.Context(), that.sessionID(r), cell)
	that.writeGame(w, view, err)
}

func (that *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	move, err := pathInt(r, "move")
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, response{Error: "invalid move"})
		return
	}

	view, err := that.game.JumpTo(r.Context(), that.sessionID(r), move)
	that.writeGame(w, view, err)
}

func (that *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	view, err := that.game.Restart(r.Context(), that.sessionID(r))
	that.writeGame(w, view, err)
}

// writeGame answers with the game view; errors are mapped to status codes and
// the view is still sent when the use case returned one.
func (that *Server) writeGame(w http.ResponseWriter, view *entity.GameView, err error) {
	if view != nil {
		that.setSessionCookie(w, view.ID)
	}

	if err == nil {
		that.writeJSON(w, http.StatusOK, response{Game: view})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("game request failed", "error", err)
		that.writeJSON(w, status, response{Error: "internal server error"})
		return
	}

	that.writeJSON(w, status, response{Game: view, Error: err.Error()})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrMoveOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isClientError(err error) bool {
	return statusFor(err) != http.StatusInternalServerError
}

func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}
