package fuzzy

// maxBits is the widest pattern the bit-parallel search can represent.
const maxBits = 32

// searcher runs approximate substring searches of one pattern using the bitap
// (shift-and with errors) algorithm. Scores are
//
//	errors/len(pattern) + |location - expected|/distance
//
// so 0 is a perfect match at the expected location and 1 is no match.
type searcher struct {
	pattern  []rune
	alphabet map[rune]uint32

	threshold float64
	location  int
	distance  int
	minRun    int
}

func newSearcher(pattern string, opts Options) *searcher {
	p := []rune(pattern)
	if len(p) > opts.MaxPatternLength {
		p = p[:opts.MaxPatternLength]
	}

	alphabet := make(map[rune]uint32, len(p))
	for i, r := range p {
		alphabet[r] |= 1 << uint(len(p)-i-1)
	}

	return &searcher{
		pattern:   p,
		alphabet:  alphabet,
		threshold: opts.Threshold,
		location:  opts.Location,
		distance:  opts.Distance,
		minRun:    opts.MinMatchCharLength,
	}
}

// score rates a hit with the given number of errors at loc.
func (s *searcher) score(errors, loc int) float64 {
	accuracy := float64(errors) / float64(len(s.pattern))
	proximity := s.location - loc
	if proximity < 0 {
		proximity = -proximity
	}
	if s.distance == 0 {
		if proximity != 0 {
			return 1
		}
		return accuracy
	}
	return accuracy + float64(proximity)/float64(s.distance)
}

// search looks for the pattern in text. It returns the best score found and
// whether anything was within the threshold at all.
func (s *searcher) search(text string) (float64, bool) {
	t := []rune(text)
	if equalRunes(s.pattern, t) {
		return 0, true
	}
	patternLen, textLen := len(s.pattern), len(t)
	if patternLen == 0 || textLen == 0 {
		return 1, false
	}

	expected := s.location
	threshold := s.threshold

	// Exact occurrences tighten the threshold before the fuzzy pass.
	if loc := indexRunes(t, s.pattern, expected); loc != -1 {
		threshold = min(s.score(0, loc), threshold)
		if loc := lastIndexRunes(t, s.pattern, expected+patternLen); loc != -1 {
			threshold = min(s.score(0, loc), threshold)
		}
	}

	matchMask := make([]bool, textLen)
	mask := uint32(1) << uint(patternLen-1)
	bestLoc, bestScore := -1, 1.0
	binMax := patternLen + textLen
	var lastBits []uint32

	for i := 0; i < patternLen; i++ {
		// Binary search for how far from the expected location a hit
		// with i errors can still be within the threshold.
		binMin, binMid := 0, binMax
		for binMin < binMid {
			if s.score(i, expected+binMid) <= threshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := max(1, expected-binMid+1)
		finish := min(expected+binMid, textLen) + patternLen

		bits := make([]uint32, finish+2)
		bits[finish+1] = (1 << uint(i)) - 1
		for j := finish; j >= start; j-- {
			cur := j - 1
			var charMatch uint32
			if cur < textLen {
				charMatch = s.alphabet[t[cur]]
			}
			if charMatch != 0 {
				matchMask[cur] = true
			}

			bits[j] = ((bits[j+1] << 1) | 1) & charMatch
			if i != 0 {
				bits[j] |= ((at(lastBits, j+1) | at(lastBits, j)) << 1) | 1 | at(lastBits, j+1)
			}

			if bits[j]&mask != 0 {
				sc := s.score(i, cur)
				if sc <= threshold {
					threshold = sc
					bestScore = sc
					bestLoc = cur
					if bestLoc <= expected {
						break
					}
					start = max(1, 2*expected-bestLoc)
				}
			}
		}

		// More errors can't beat what we already have.
		if s.score(i+1, expected) > threshold {
			break
		}
		lastBits = bits
	}

	if bestLoc < 0 || longestRun(matchMask) < s.minRun {
		return 1, false
	}
	if bestScore == 0 {
		// Reserve 0 for identical strings.
		bestScore = 0.001
	}
	return bestScore, true
}

func at(bits []uint32, i int) uint32 {
	if i < 0 || i >= len(bits) {
		return 0
	}
	return bits[i]
}

func longestRun(mask []bool) int {
	best, run := 0, 0
	for _, m := range mask {
		if m {
			run++
			best = max(best, run)
		} else {
			run = 0
		}
	}
	return best
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// indexRunes returns the first index >= from where p occurs in t, or -1.
func indexRunes(t, p []rune, from int) int {
	for i := max(from, 0); i+len(p) <= len(t); i++ {
		if equalRunes(t[i:i+len(p)], p) {
			return i
		}
	}
	return -1
}

// lastIndexRunes returns the last index <= from where p occurs in t, or -1.
func lastIndexRunes(t, p []rune, from int) int {
	for i := min(from, len(t)-len(p)); i >= 0; i-- {
		if equalRunes(t[i:i+len(p)], p) {
			return i
		}
	}
	return -1
}
