package rest

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/config"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

const shutdownTimeout = 5 * time.Second

//go:embed templates/*.html
var templates embed.FS

type gameUseCase interface {
	GetOrCreateGame(ctx context.Context, id string) (*entity.GameView, error)
	Play(ctx context.Context, id string, cell int) (*entity.GameView, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.GameView, error)
	Restart(ctx context.Context, id string) (*entity.GameView, error)
}

type Server struct {
	logger  *slog.Logger
	game    gameUseCase
	session config.Session
	page    *template.Template
}

func New(logger *slog.Logger, game gameUseCase, session config.Session) *Server {
	page := template.Must(template.New("game.html").
		Funcs(template.FuncMap{"rows": rows}).
		ParseFS(templates, "templates/game.html"))

	return &Server{
		logger:  logger.With("component", "rest"),
		game:    game,
		session: session,
		page:    page,
	}
}

// Router returns the HTTP routes of the page and the JSON API.
func (that *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/ping", that.handlePing).Methods(http.MethodGet)

	router.HandleFunc("/", that.handlePage).Methods(http.MethodGet)
	router.HandleFunc("/squares/{cell}", that.handlePagePlay).Methods(http.MethodPost)
	router.HandleFunc("/moves/{move}", that.handlePageJump).Methods(http.MethodPost)
	router.HandleFunc("/restart", that.handlePageRestart).Methods(http.MethodPost)

	api := router.PathPrefix("/api/game").Subrouter()
	api.HandleFunc("", that.handleGetGame).Methods(http.MethodGet)
	api.HandleFunc("/squares/{cell}", that.handlePlay).Methods(http.MethodPost)
	api.HandleFunc("/moves/{move}", that.handleJump).Methods(http.MethodPost)
	api.HandleFunc("/restart", that.handleRestart).Methods(http.MethodPost)

	return router
}

// Start - starts HTTP server and stops it when ctx is done. It returns after
// in-flight requests have finished.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	// ListenAndServe returns as soon as shutdown begins; wait for in-flight requests.
	<-shutdownDone

	return nil
}

// sessionID returns the session carried by the request cookie, if any.
func (that *Server) sessionID(req *http.Request) string {
	cookie, err := req.Cookie(that.session.CookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// setSessionCookie - set user session.
func (that *Server) setSessionCookie(writer http.ResponseWriter, id string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     that.session.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(that.session.TTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// rows splits the nine cells into the three rows of the board.
func rows(cells []entity.Cell) [][]entity.Cell {
	result := make([][]entity.Cell, 0, 3)
	for start := 0; start < len(cells); start += 3 {
		result = append(result, cells[start:min(start+3, len(cells))])
	}

	return result
}
