package highscore

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lixenwraith/pinball/core"
	"github.com/lixenwraith/pinball/parameter"
)

// Board is the game-over view of the leaderboard
type Board struct {
	Final   int
	NewHigh bool
	Saved   bool
	Entries []Entry
	Err     error
}

// Recorder saves final scores off the tick goroutine
// It satisfies the session's final score reporter
type Recorder struct {
	mu       sync.Mutex
	store    Store
	initials string
	timeout  time.Duration
	board    Board
	ready    bool
	wg       sync.WaitGroup

	// gen increments on every report and reset; a save finishing under an older gen is dropped
	gen uint64
}

// NewRecorder creates a recorder saving under initials
func NewRecorder(store Store, initials string) *Recorder {
	return &Recorder{
		store:    store,
		initials: NormalizeInitials(initials),
		timeout:  parameter.HighScoreTimeout,
	}
}

// ReportFinalScore starts an asynchronous save and board refresh
func (r *Recorder) ReportFinalScore(score int) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.ready = false
	r.board = Board{Final: score}
	r.mu.Unlock()

	r.wg.Add(1)
	core.Go(func() {
		defer r.wg.Done()
		board := r.record(score)

		r.mu.Lock()
		defer r.mu.Unlock()
		if gen != r.gen {
			log.Printf("[highscore] dropping stale result for %d", score)
			return
		}
		r.board = board
		r.ready = true
	})
}

func (r *Recorder) record(score int) Board {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	board := Board{Final: score}

	isNew, err := r.store.IsNewHighScore(ctx, score)
	if err != nil {
		log.Printf("[highscore] check failed: %v", err)
		board.Err = err
		return board
	}
	board.NewHigh = isNew

	if isNew {
		if err := r.store.Save(ctx, r.initials, score); err != nil {
			log.Printf("[highscore] save failed: %v", err)
			board.Err = err
		} else {
			board.Saved = true
		}
	}

	entries, err := r.store.Scores(ctx)
	if err != nil {
		log.Printf("[highscore] read failed: %v", err)
		if board.Err == nil {
			board.Err = err
		}
		return board
	}
	board.Entries = entries
	return board
}

// Board returns the latest result and whether the save has completed
func (r *Recorder) Board() (Board, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board, r.ready
}

// Initials returns the normalized initials scores are saved under
func (r *Recorder) Initials() string {
	return r.initials
}

// Reset forgets the previous result before a new session, including a save still in flight
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.board = Board{}
	r.ready = false
}

// Wait blocks until pending saves finish
func (r *Recorder) Wait() {
	r.wg.Wait()
}
