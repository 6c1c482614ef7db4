package game

import (
	"bufio"
	"bytes"
	_ "embed"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
)

//go:embed words.txt
var embeddedWords []byte

// Dictionary is an in-memory word source. Languages without a list of their
// own fall back to the default list.
type Dictionary struct {
	locker   sync.Mutex
	byLang   map[int][]string
	fallback []string
	rng      *rand.Rand
}

func NewDictionary(fallback []string) *Dictionary {
	return &Dictionary{
		byLang:   map[int][]string{},
		fallback: fallback,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// LoadWords reads the embedded list, one word per line.
func LoadWords() *Dictionary {
	return NewDictionary(ParseWordList(embeddedWords))
}

func ParseWordList(data []byte) []string {
	words := []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words = append(words, w)
	}
	return words
}

func (d *Dictionary) SetLanguage(lang int, words []string) {
	d.locker.Lock()
	d.byLang[lang] = words
	d.locker.Unlock()
}

// Words returns a copy of the list Generate draws from for lang.
func (d *Dictionary) Words(lang int) []string {
	d.locker.Lock()
	defer d.locker.Unlock()
	if list, ok := d.byLang[lang]; ok && len(list) > 0 {
		return slices.Clone(list)
	}
	return slices.Clone(d.fallback)
}

func (d *Dictionary) Generate(lang, count int) []string {
	d.locker.Lock()
	defer d.locker.Unlock()

	list, ok := d.byLang[lang]
	if !ok || len(list) == 0 {
		list = d.fallback
	}
	count = min(count, len(list))
	res := make([]string, 0, count)
	for _, i := range d.rng.Perm(len(list))[:count] {
		res = append(res, list[i])
	}
	return res
}
