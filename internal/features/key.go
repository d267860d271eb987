package features

// FeatureKey is a partially or fully combined sparse feature: a 64-bit
// hashed fingerprint plus a multiplicative value.
type FeatureKey struct {
	Hash  uint64
	Value float64
}

// reservedEmpty is the value the weight store's open-addressed table uses to
// mark an unoccupied slot; no real feature key may ever hash to it.
const reservedEmpty uint64 = 0

// finalize is a MurmurHash3-style 64-bit integer finalizer (fmix64), used to
// spread an attribute or template id across the hash space before it is
// folded into a running fingerprint.
func finalize(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// guardZero perturbs h if it collapsed to the reserved empty-slot sentinel.
func guardZero(h uint64) uint64 {
	if h == reservedEmpty {
		return finalize(^h)
	}
	return h
}

// combine folds x into seed using a 64-bit variant of the Boost
// hash_combine recurrence, applied to x's finalized hash.
func combine(seed uint64, x int) uint64 {
	fx := finalize(uint64(x))
	seed ^= fx + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2)
	return guardZero(seed)
}

// seedKey returns the initial FeatureKey for union member index
// memberIndex: the hash starts at the member's own index (so keys from
// different template lines stay distinct by construction) with value 1.0.
func seedKey(memberIndex int) FeatureKey {
	return FeatureKey{Hash: guardZero(uint64(memberIndex)), Value: 1.0}
}

// mixAttribute combines one attribute into a key: the id is folded into
// the hash and the attribute value multiplies the key value.
func mixAttribute(k FeatureKey, aid int, v float64) FeatureKey {
	return FeatureKey{Hash: combine(k.Hash, aid), Value: k.Value * v}
}
