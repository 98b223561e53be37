package featurevector

import (
	"github.com/spaolacci/murmur3"
)

const (
	// FeatureBits bounds the hashed feature space; collisions within the
	// 24-bit range are an accepted approximation of the unbounded
	// feature-name space.
	FeatureBits = 24
	VectorSize  = 1 << FeatureBits

	featureMask = VectorSize - 1
)

// Feature is a hashed feature index in [0, VectorSize).
type Feature uint32

// HashFeature maps a feature name to its index in the bounded feature space.
func HashFeature(name string) Feature {
	return Feature(murmur3.Sum32([]byte(name)) & featureMask)
}
