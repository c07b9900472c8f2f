// Package rollout provides deterministic entity bucketing for feature launches.
package rollout

import (
	"github.com/cespare/xxhash/v2"
)

// BucketEntity returns a deterministic bucket (0-99) for the given entity and feature.
// The same entityID + feature + salt combination will always return the same bucket.
func BucketEntity(entityID, feature, salt string) int {
	if entityID == "" {
		return -1
	}
	key := entityID + ":" + feature + ":" + salt
	hash := xxhash.Sum64String(key)
	return int(hash % 100)
}
