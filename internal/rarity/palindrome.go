package rarity

import "strconv"

// pow10[i] == 10^i; 10^19 is the largest power that fits in a uint64
var pow10 = func() [20]uint64 {
	var p [20]uint64
	p[0] = 1
	for i := 1; i < len(p); i++ {
		p[i] = p[i-1] * 10
	}
	return p
}()

// digitLen returns the number of decimal digits of n (1 for zero)
func digitLen(n uint64) int {
	l := 1
	for l < len(pow10) && n >= pow10[l] {
		l++
	}
	return l
}

// IsPalindrome reports whether the decimal representation of n reads the same both ways
func IsPalindrome(n uint64) bool {
	return isPalindromeString(strconv.FormatUint(n, 10))
}

func isPalindromeString(s string) bool {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		if s[i] != s[j] {
			return false
		}
	}
	return true
}

// Palindromes lists every palindromic integer in the inclusive range [lo, hi] in
// ascending order. The work is proportional to the number of digits plus the
// number of matches, never to hi-lo.
func Palindromes(lo, hi uint64) []uint64 {
	if lo > hi {
		return nil
	}

	var out []uint64
	loLen, hiLen := digitLen(lo), digitLen(hi)
	for l := loLen; l <= hiLen; l++ {
		a, b := lo, hi
		if l > loLen {
			a = pow10[l-1]
		}
		if l < hiLen {
			b = pow10[l] - 1
		}
		out = appendPalindromes(out, a, b, l)
	}
	return out
}

// appendPalindromes appends the palindromes of [a, b], where both bounds have exactly l digits.
//
// A palindrome of length l is fixed by its first ceil(l/2) digits (the prefix k) and
// equals k*10^h + mirror(k), h = floor(l/2). Prefixes strictly between the bounds'
// prefixes always land inside [a, b]; the two boundary prefixes are checked by
// comparing their mirrored suffix against the bound's last h digits, which also keeps
// 20 digit values from overflowing.
func appendPalindromes(out []uint64, a, b uint64, l int) []uint64 {
	h := l / 2
	scale := pow10[h]
	first, last := a/scale, b/scale

	if first == last {
		if m := mirror(first, l); m >= a%scale && m <= b%scale {
			out = append(out, first*scale+m)
		}
		return out
	}

	if m := mirror(first, l); m >= a%scale {
		out = append(out, first*scale+m)
	}
	for k := first + 1; k < last; k++ {
		out = append(out, k*scale+mirror(k, l))
	}
	if m := mirror(last, l); m <= b%scale {
		out = append(out, last*scale+m)
	}
	return out
}

// mirror returns the low half of the length-l palindrome whose high half is prefix:
// the prefix digits reversed, without the middle digit when l is odd.
func mirror(prefix uint64, l int) uint64 {
	if l%2 == 1 {
		prefix /= 10
	}
	var m uint64
	for prefix > 0 {
		m = m*10 + prefix%10
		prefix /= 10
	}
	return m
}

// IsUniformPalinception reports whether the decimal string is a palindrome built from
// equal-length palindromic segments (at least two segments of at least two digits),
// or consists of a single repeated digit.
func IsUniformPalinception(s string) bool {
	if s == "" || !isPalindromeString(s) {
		return false
	}
	if isRepdigit(s) {
		return true
	}
	for size := 2; size <= len(s)/2; size++ {
		if len(s)%size == 0 && segmentsArePalindromes(s, size) {
			return true
		}
	}
	return false
}

// IsPerfectPalinception reports whether the decimal string is the same palindromic
// segment (at least two digits) repeated two or more times.
func IsPerfectPalinception(s string) bool {
	if s == "" || !isPalindromeString(s) {
		return false
	}
	for size := 2; size <= len(s)/2; size++ {
		if len(s)%size != 0 {
			continue
		}
		seg := s[:size]
		if isPalindromeString(seg) && isRepeated(s, seg) {
			return true
		}
	}
	return false
}

func isRepdigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func segmentsArePalindromes(s string, size int) bool {
	for i := 0; i < len(s); i += size {
		if !isPalindromeString(s[i : i+size]) {
			return false
		}
	}
	return true
}

func isRepeated(s, seg string) bool {
	for i := 0; i < len(s); i += len(seg) {
		if s[i:i+len(seg)] != seg {
			return false
		}
	}
	return true
}

// palindromeChunks runs the enumerator once over [start, end) and tags every match
// with the palindrome kind and each refinement it satisfies.
func palindromeChunks(start, end uint64, height uint32) []Entry {
	var normal, perfect, uniform, paliblock []Chunk
	blockIsPalindrome := IsPalindrome(uint64(height))

	// end is exclusive; the enumerator takes an inclusive range
	for _, p := range Palindromes(start, end-1) {
		c := Chunk{Start: p, End: p + 1}
		normal = append(normal, c)

		s := strconv.FormatUint(p, 10)
		if IsPerfectPalinception(s) {
			perfect = append(perfect, c)
		}
		if IsUniformPalinception(s) {
			uniform = append(uniform, c)
		}
		if blockIsPalindrome {
			paliblock = append(paliblock, c)
		}
	}

	return []Entry{
		{Kind: Palindrome, Chunks: normal},
		{Kind: PerfectPalinception, Chunks: perfect},
		{Kind: UniformPalinception, Chunks: uniform},
		{Kind: PaliblockPalindrome, Chunks: paliblock},
	}
}
