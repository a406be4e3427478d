package highscore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/lixenwraith/pinball/parameter"
)

// ErrBadMember is returned when a stored member cannot be decoded
var ErrBadMember = errors.New("malformed high score member")

// Entry is one leaderboard row
type Entry struct {
	Initials string
	Score    int
	At       time.Time
}

// Store persists the top scores
type Store interface {
	// Scores returns up to MaxHighScores entries, best first
	Scores(ctx context.Context) ([]Entry, error)
	// Save records a score and trims the board
	Save(ctx context.Context, initials string, score int) error
	// IsNewHighScore reports whether score would enter the board
	IsNewHighScore(ctx context.Context, score int) (bool, error)
	Close() error
}

// NormalizeInitials upper-cases letters, drops other runes and truncates to three
// An empty result falls back to the default initials
func NormalizeInitials(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == parameter.InitialsMaxRunes {
			break
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	if n == 0 {
		return parameter.DefaultInitials
	}
	return b.String()
}

// qualifies reports whether score beats a board already sorted best first
func qualifies(board []Entry, score int) bool {
	if score <= 0 {
		return false
	}
	if len(board) < parameter.MaxHighScores {
		return true
	}
	return score > board[len(board)-1].Score
}

// sortEntries orders best first, earlier entries win ties
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].At.Before(entries[j].At)
	})
}

// encodeMember packs initials and timestamp into a unique sorted-set member
func encodeMember(initials string, at time.Time) string {
	return initials + ":" + strconv.FormatInt(at.UnixNano(), 10)
}

// decodeMember splits a sorted-set member produced by encodeMember
func decodeMember(member string) (string, time.Time, error) {
	i := strings.LastIndexByte(member, ':')
	if i <= 0 {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrBadMember, member)
	}
	nanos, err := strconv.ParseInt(member[i+1:], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q: %v", ErrBadMember, member, err)
	}
	return member[:i], time.Unix(0, nanos), nil
}

// Memory keeps the board in process
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory board
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Scores(ctx context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *Memory) Save(ctx context.Context, initials string, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{
		Initials: NormalizeInitials(initials),
		Score:    score,
		At:       m.now(),
	})
	sortEntries(m.entries)
	if len(m.entries) > parameter.MaxHighScores {
		m.entries = m.entries[:parameter.MaxHighScores]
	}
	return nil
}

func (m *Memory) IsNewHighScore(ctx context.Context, score int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return qualifies(m.entries, score), nil
}

func (m *Memory) Close() error { return nil }
