package match

import "github.com/vulntor/fingerbank/pkg/fingerprint"

// QuickRatio is an upper bound on Ratio computed from the multiset of codes the
// two fingerprints have in common, ignoring order. It runs in linear time.
func QuickRatio(a, b fingerprint.Fingerprint) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}

	avail := b.Counts()
	common := 0
	for _, code := range a {
		if avail[code] > 0 {
			avail[code]--
			common++
		}
	}
	return 2 * float64(common) / float64(total)
}

// Ratio is the sequence similarity 2*M/T where M is the total size of the
// matching blocks found by repeatedly taking the longest common contiguous run
// and recursing on both sides of it, and T is the combined length. Quadratic in
// the worst case.
func Ratio(a, b fingerprint.Fingerprint) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 2 * float64(matchingBlocksSize(a, b)) / float64(total)
}

type span struct{ alo, ahi, blo, bhi int }

func matchingBlocksSize(a, b fingerprint.Fingerprint) int {
	b2j := make(map[int][]int, len(b))
	for j, code := range b {
		b2j[code] = append(b2j[code], j)
	}

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b2j, s)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longestMatch finds the longest common run a[i:i+k] == b[j:j+k] inside s,
// preferring the earliest i and then the earliest j.
func longestMatch(a fingerprint.Fingerprint, b2j map[int][]int, s span) (besti, bestj, bestk int) {
	besti, bestj = s.alo, s.blo
	j2len := map[int]int{}
	for i := s.alo; i < s.ahi; i++ {
		next := map[int]int{}
		for _, j := range b2j[a[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestk
}
