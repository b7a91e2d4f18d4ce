package redis

import (
	"fmt"

	"github.com/mport/typeduel/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "typeduel"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// passageKey returns the Redis key for a Passage
func passageKey(id model.PassageID) string {
	return fmt.Sprintf("%s:passage:%s", keyPrefix, id)
}

// passageIndexKey returns the Redis key for the SET of all passage IDs
func passageIndexKey() string {
	return fmt.Sprintf("%s:idx:passages", keyPrefix)
}
