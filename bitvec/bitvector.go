package bitvec

import (
	"fmt"
	"math/bits"
	"sort"
	"unsafe"

	"github.com/arloliu/loudstrie/endian"
	"github.com/arloliu/loudstrie/errs"
	"github.com/arloliu/loudstrie/internal/options"
)

const (
	wordBits     = 64
	wordBytes    = 8
	wordShift    = 6
	wordBitsMask = wordBits - 1
)

// BitVector is an immutable bit sequence with rank and select support.
//
// Bit i lives in word i/64 at bit i%64, least significant bit first. The
// rank and select caches are computed once by New; afterwards all methods
// are read-only and safe for concurrent use.
type BitVector struct {
	words   []uint64
	numBits int
	ones    int

	cfg config

	// rank1[j] is the number of ones in words[0 : j*cfg.rank1].
	rank1 []uint32
	// rank0[j] is the number of zeros in words[0 : j*cfg.rank0].
	rank0 []uint32
	// select1[j] is the position of the (j*cfg.select1+1)-th one.
	select1 []uint32
	// select0[j] is the position of the (j*cfg.select0+1)-th zero.
	select0 []uint32
}

// New creates a BitVector over the first numBits bits stored in data.
//
// data holds ceil(numBits/64) words in the byte order of engine; trailing
// bytes are ignored. When engine matches the host byte order and data is
// 8-byte aligned the words are used in place, otherwise they are decoded
// into a private slice. The padding bits of the last word must be zero.
//
// Options select the cache granularities; without options no caches are
// built and every query scans from the start of the vector.
func New(data []byte, numBits int, engine endian.EndianEngine, opts ...Option) (*BitVector, error) {
	if numBits < 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidBitCount, numBits)
	}

	numWords := (numBits + wordBitsMask) >> wordShift
	if len(data) < numWords*wordBytes {
		return nil, fmt.Errorf("%w: %d bits need %d bytes, got %d",
			errs.ErrInvalidBitCount, numBits, numWords*wordBytes, len(data))
	}

	cfg := config{}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	bv := &BitVector{
		words:   viewWords(data[:numWords*wordBytes], numWords, engine),
		numBits: numBits,
		cfg:     cfg,
	}

	if tail := numBits & wordBitsMask; tail != 0 && bv.words[numWords-1]>>tail != 0 {
		return nil, fmt.Errorf("%w: non-zero padding after bit %d", errs.ErrInvalidBitCount, numBits)
	}

	for _, w := range bv.words {
		bv.ones += bits.OnesCount64(w)
	}

	bv.buildRankTables()
	bv.buildSelectSamples()

	return bv, nil
}

// FromWords creates a BitVector over words without copying them.
// It applies the same validation and options as New.
func FromWords(words []uint64, numBits int, opts ...Option) (*BitVector, error) {
	if numBits < 0 || len(words) < (numBits+wordBitsMask)>>wordShift {
		return nil, fmt.Errorf("%w: %d bits in %d words", errs.ErrInvalidBitCount, numBits, len(words))
	}
	if len(words) == 0 {
		return New(nil, numBits, endian.GetLittleEndianEngine(), opts...)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), len(words)*wordBytes)

	return New(data, numBits, endian.GetNativeEngine(), opts...)
}

func viewWords(data []byte, numWords int, engine endian.EndianEngine) []uint64 {
	if numWords == 0 {
		return nil
	}

	ptr := unsafe.Pointer(&data[0])
	if endian.CompareNativeEndian(engine) && uintptr(ptr)%unsafe.Alignof(uint64(0)) == 0 {
		return unsafe.Slice((*uint64)(ptr), numWords)
	}

	words := make([]uint64, numWords)
	for i := range words {
		words[i] = engine.Uint64(data[i*wordBytes:])
	}

	return words
}

func (bv *BitVector) buildRankTables() {
	if g := bv.cfg.rank1; g > 0 {
		bv.rank1 = make([]uint32, len(bv.words)/g+1)
	}
	if g := bv.cfg.rank0; g > 0 {
		bv.rank0 = make([]uint32, len(bv.words)/g+1)
	}
	if bv.rank1 == nil && bv.rank0 == nil {
		return
	}

	ones := 0
	for i := 0; i <= len(bv.words); i++ {
		if g := bv.cfg.rank1; g > 0 && i%g == 0 {
			bv.rank1[i/g] = uint32(ones) //nolint:gosec
		}
		if g := bv.cfg.rank0; g > 0 && i%g == 0 {
			bv.rank0[i/g] = uint32(i*wordBits - ones) //nolint:gosec
		}
		if i < len(bv.words) {
			ones += bits.OnesCount64(bv.words[i])
		}
	}
}

func (bv *BitVector) buildSelectSamples() {
	if s := bv.cfg.select1; s > 0 && bv.ones > 0 {
		bv.select1 = sample(bv.words, bv.ones, s, false)
	}
	if s := bv.cfg.select0; s > 0 && bv.Zeros() > 0 {
		bv.select0 = sample(bv.words, bv.Zeros(), s, true)
	}
}

// sample returns the positions of the 1st, (step+1)-th, (2*step+1)-th ...
// set bit (or clear bit when inverted), up to total.
func sample(words []uint64, total, step int, inverted bool) []uint32 {
	samples := make([]uint32, 0, (total-1)/step+1)
	target := 1
	seen := 0
	for i, w := range words {
		if inverted {
			w = ^w
		}
		c := bits.OnesCount64(w)
		for target <= total && target <= seen+c {
			pos := i*wordBits + selectInWord(w, target-seen)
			samples = append(samples, uint32(pos)) //nolint:gosec
			target += step
		}
		if target > total {
			break
		}
		seen += c
	}

	return samples
}

// selectInWord returns the bit position of the r-th (1-based) set bit of w.
func selectInWord(w uint64, r int) int {
	for ; r > 1; r-- {
		w &= w - 1
	}

	return bits.TrailingZeros64(w)
}

// Len returns the number of bits.
func (bv *BitVector) Len() int {
	return bv.numBits
}

// Ones returns the number of set bits.
func (bv *BitVector) Ones() int {
	return bv.ones
}

// Zeros returns the number of clear bits.
func (bv *BitVector) Zeros() int {
	return bv.numBits - bv.ones
}

// SizeInBytes returns the memory held by the rank and select caches.
// The bit data itself is not counted.
func (bv *BitVector) SizeInBytes() int {
	return 4 * (len(bv.rank0) + len(bv.rank1) + len(bv.select0) + len(bv.select1))
}

// Get returns bit i. It panics if i is not in [0, Len()).
func (bv *BitVector) Get(i int) bool {
	if i < 0 || i >= bv.numBits {
		panic(fmt.Errorf("%w: bit %d not in [0, %d)", errs.ErrOutOfRange, i, bv.numBits))
	}

	return bv.words[i>>wordShift]&(1<<(uint(i)&wordBitsMask)) != 0
}

// Rank1 returns the number of ones in [0, pos). It panics if pos is not in [0, Len()].
func (bv *BitVector) Rank1(pos int) int {
	bv.checkRankPos(pos)

	return bv.onesBefore(pos, false)
}

// Rank0 returns the number of zeros in [0, pos). It panics if pos is not in [0, Len()].
func (bv *BitVector) Rank0(pos int) int {
	bv.checkRankPos(pos)

	return pos - bv.onesBefore(pos, true)
}

func (bv *BitVector) checkRankPos(pos int) {
	if pos < 0 || pos > bv.numBits {
		panic(fmt.Errorf("%w: rank position %d not in [0, %d]", errs.ErrOutOfRange, pos, bv.numBits))
	}
}

// onesBefore counts the ones in [0, pos), starting from the nearest rank
// table entry. preferZeros picks the rank0 table when both exist.
func (bv *BitVector) onesBefore(pos int, preferZeros bool) int {
	w := pos >> wordShift
	start, ones := 0, 0

	switch {
	case bv.rank0 != nil && (preferZeros || bv.rank1 == nil):
		j := w / bv.cfg.rank0
		start = j * bv.cfg.rank0
		ones = start*wordBits - int(bv.rank0[j])
	case bv.rank1 != nil:
		j := w / bv.cfg.rank1
		start = j * bv.cfg.rank1
		ones = int(bv.rank1[j])
	}

	for i := start; i < w; i++ {
		ones += bits.OnesCount64(bv.words[i])
	}
	if r := uint(pos) & wordBitsMask; r != 0 {
		ones += bits.OnesCount64(bv.words[w] & (1<<r - 1))
	}

	return ones
}

// Select1 returns the position of the k-th one, k counted from 1.
// It panics if k is not in [1, Ones()].
func (bv *BitVector) Select1(k int) int {
	if k < 1 || k > bv.ones {
		panic(fmt.Errorf("%w: select1 rank %d not in [1, %d]", errs.ErrOutOfRange, k, bv.ones))
	}

	return bv.selectBit(k, false)
}

// Select0 returns the position of the k-th zero, k counted from 1.
// It panics if k is not in [1, Zeros()].
func (bv *BitVector) Select0(k int) int {
	if k < 1 || k > bv.Zeros() {
		panic(fmt.Errorf("%w: select0 rank %d not in [1, %d]", errs.ErrOutOfRange, k, bv.Zeros()))
	}

	return bv.selectBit(k, true)
}

func (bv *BitVector) selectBit(k int, zeros bool) int {
	samples, step := bv.select1, bv.cfg.select1
	if zeros {
		samples, step = bv.select0, bv.cfg.select0
	}

	if samples != nil {
		j := (k - 1) / step
		pos := int(samples[j])
		remaining := k - 1 - j*step
		if remaining == 0 {
			return pos
		}

		w := pos >> wordShift
		word := bv.word(w, zeros)
		// drop bits up to and including pos
		word &^= 2<<(uint(pos)&wordBitsMask) - 1

		return bv.scanSelect(w, word, remaining, zeros)
	}

	w, seen := bv.nearestBoundary(k, zeros)

	return bv.scanSelect(w, bv.word(w, zeros), k-seen, zeros)
}

// word returns word i, inverted when counting zeros.
func (bv *BitVector) word(i int, inverted bool) uint64 {
	if inverted {
		return ^bv.words[i]
	}

	return bv.words[i]
}

// scanSelect finds the r-th set bit starting with the already loaded (and
// possibly masked) word at index w.
func (bv *BitVector) scanSelect(w int, word uint64, r int, zeros bool) int {
	for {
		c := bits.OnesCount64(word)
		if r <= c {
			return w*wordBits + selectInWord(word, r)
		}
		r -= c
		w++
		word = bv.word(w, zeros)
	}
}

// nearestBoundary returns the last rank table boundary (as a word index)
// before which fewer than k target bits occur, with the count of target
// bits before it. Without rank tables it returns (0, 0).
func (bv *BitVector) nearestBoundary(k int, zeros bool) (int, int) {
	var table []uint32
	var step int
	tableCountsZeros := false

	switch {
	case zeros && bv.rank0 != nil, !zeros && bv.rank1 == nil && bv.rank0 != nil:
		table, step, tableCountsZeros = bv.rank0, bv.cfg.rank0, true
	case bv.rank1 != nil:
		table, step = bv.rank1, bv.cfg.rank1
	default:
		return 0, 0
	}

	countAt := func(j int) int {
		c := int(table[j])
		if tableCountsZeros != zeros {
			c = j*step*wordBits - c
		}

		return c
	}

	// first boundary holding at least k target bits, then step back one
	j := sort.Search(len(table), func(j int) bool { return countAt(j) >= k }) - 1

	return j * step, countAt(j)
}
