package models

import (
	"strconv"
	"strings"
)

// SelectionKey builds the stable identifier that joins a profile row to its
// odds across independent fetches. Same inputs always produce the same key,
// and the key does not change when non-identity fields (hit rates, averages)
// move between refetches.
func SelectionKey(playerID int, market string, line *float64, gameID string) string {
	lineStr := "-"
	if line != nil {
		lineStr = strconv.FormatFloat(*line, 'f', -1, 64)
	}

	return strconv.Itoa(playerID) + "|" + market + "|" + lineStr + "|" + NormalizeGameID(gameID)
}

// NormalizeGameID strips leading zeros so ids from differently-padded sources
// compare equal ("0012345" and "12345" are the same game).
func NormalizeGameID(gameID string) string {
	if gameID == "" {
		return ""
	}

	trimmed := strings.TrimLeft(gameID, "0")
	if trimmed == "" {
		// All zeros
		return "0"
	}
	return trimmed
}

// SelectionKeyForRow is a convenience wrapper over SelectionKey.
func SelectionKeyForRow(row ProfileRow) string {
	return SelectionKey(row.PlayerID, row.Market, row.Line, row.GameID)
}
