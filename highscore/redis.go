package highscore

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lixenwraith/pinball/parameter"
	"github.com/redis/go-redis/v9"
)

// Redis keeps the board in a sorted set keyed by score
type Redis struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// Connect opens and pings a Redis client for the board at key
func Connect(ctx context.Context, redisURL, key string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client, key: key, now: time.Now}, nil
}

func (r *Redis) Scores(ctx context.Context) ([]Entry, error) {
	rows, err := r.client.ZRevRangeWithScores(ctx, r.key, 0, parameter.MaxHighScores-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}
	return entriesFromZ(rows), nil
}

func (r *Redis) Save(ctx context.Context, initials string, score int) error {
	member := encodeMember(NormalizeInitials(initials), r.now())

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, r.key, redis.Z{Score: float64(score), Member: member})
		// Lowest ranks first; keep the top MaxHighScores
		pipe.ZRemRangeByRank(ctx, r.key, 0, int64(-parameter.MaxHighScores-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

func (r *Redis) IsNewHighScore(ctx context.Context, score int) (bool, error) {
	board, err := r.Scores(ctx)
	if err != nil {
		return false, err
	}
	return qualifies(board, score), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// entriesFromZ decodes sorted-set rows, skipping members written by other tools
func entriesFromZ(rows []redis.Z) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, z := range rows {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		initials, at, err := decodeMember(member)
		if err != nil {
			log.Printf("[highscore] %v", err)
			continue
		}
		entries = append(entries, Entry{Initials: initials, Score: int(z.Score), At: at})
	}
	sortEntries(entries)
	return entries
}
