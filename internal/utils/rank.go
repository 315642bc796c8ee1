package utils

// RankList returns the 1-based ranks of count items that are already sorted best first.
// Ranks saturate at the uint16 maximum.
func RankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(min(i+1, 1<<16-1))
	}
	return ranks
}
