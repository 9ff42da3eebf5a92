package preset

import (
	"math/rand"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// seedSalt decorrelates generators created within the same clock tick.
var seedSalt atomic.Int64

// DictionaryGenerator produces styled identifier names from a fixed rune
// alphabet. Every instance carries its own random source and counter, so
// two configs never share generator state.
type DictionaryGenerator struct {
	alphabet []rune
	stemLen  int
	rng      *rand.Rand
	counter  int
}

// NewDictionaryGenerator creates a fresh generator over the given alphabet.
// The alphabet must contain only runes valid at the start of a JavaScript
// identifier.
func NewDictionaryGenerator(alphabet string, stemLen int) *DictionaryGenerator {
	if stemLen <= 0 {
		stemLen = 6
	}
	return &DictionaryGenerator{
		alphabet: []rune(alphabet),
		stemLen:  stemLen,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano() ^ seedSalt.Add(1)<<32)),
	}
}

// Next returns one identifier: a random stem plus a monotonically increasing
// base-36 suffix. The suffix guarantees distinctness within one generator
// even when random stems repeat.
func (g *DictionaryGenerator) Next() string {
	var b strings.Builder
	for i := 0; i < g.stemLen; i++ {
		b.WriteRune(g.alphabet[g.rng.Intn(len(g.alphabet))])
	}
	b.WriteString(strconv.FormatInt(int64(g.counter), 36))
	g.counter++
	return b.String()
}

// Counter reports how many names have been drawn so far.
func (g *DictionaryGenerator) Counter() int {
	return g.counter
}

// Identifier alphabets for the locale-flavored presets. All runes are in
// the Unicode ID_Start class, so generated names are valid JavaScript
// identifiers without escaping.
const (
	alphabetKatakana = "アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワン"
	alphabetCyrillic = "абвгдежзийклмнопрстуфхцчшщэюя"
	alphabetGreek    = "αβγδεζηθικλμνξοπρστυφχψω"
)
