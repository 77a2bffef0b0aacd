package morkato

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/morkato/morkato-bot/api"
)

// DiscordEpoch is the first millisecond of 2015, the epoch ids are counted from
const DiscordEpoch int64 = 1420070400000

// SnowflakeTime extracts the creation time encoded in the upper bits of an id
func SnowflakeTime(id api.Snowflake) time.Time {
	return time.UnixMilli(int64(id)>>22 + DiscordEpoch)
}

func millisTime(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}

// sortedByID returns the values of m ordered by ascending id
func sortedByID[T any](m map[api.Snowflake]T) []T {
	ids := slices.SortedFunc(maps.Keys(m), cmp.Compare[api.Snowflake])
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
