package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-table/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Reader pulls game schedule data written by game-stats-service out of Redis.
type Reader struct {
	redisClient *redis.Client
	sportKey    string
}

// NewReader creates a schedule reader for one sport.
func NewReader(redisClient *redis.Client, sportKey string) *Reader {
	return &Reader{
		redisClient: redisClient,
		sportKey:    sportKey,
	}
}

// TodaysGames returns the current slate. When today's list is empty the
// tomorrow window is also checked, so late-night users still see the next
// slate.
func (r *Reader) TodaysGames(ctx context.Context) ([]models.Game, error) {
	today := time.Now().UTC()

	games, err := r.gamesForDate(ctx, today)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		tomorrow := today.Add(24 * time.Hour)
		games, err = r.gamesForDate(ctx, tomorrow)
		if err != nil {
			return nil, err
		}
	}

	return games, nil
}

func (r *Reader) gamesForDate(ctx context.Context, date time.Time) ([]models.Game, error) {
	dateStr := date.Format("2006-01-02")
	key := fmt.Sprintf("games:today:%s:%s", r.sportKey, dateStr)

	gameIDs, err := r.redisClient.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games for %s: %w", dateStr, err)
	}

	games := make([]models.Game, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		game, err := r.gameSummary(ctx, gameID)
		if err != nil {
			// Skip games that can't be loaded
			continue
		}
		games = append(games, game)
	}

	return games, nil
}

func (r *Reader) gameSummary(ctx context.Context, gameID string) (models.Game, error) {
	key := fmt.Sprintf("game:%s:summary", gameID)

	data, err := r.redisClient.Get(ctx, key).Result()
	if err != nil {
		return models.Game{}, err
	}

	var game models.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return models.Game{}, fmt.Errorf("parsing game %s: %w", gameID, err)
	}
	if game.GameID == "" {
		game.GameID = gameID
	}

	return game, nil
}
