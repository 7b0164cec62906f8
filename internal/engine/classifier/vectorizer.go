package classifier

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// wordPattern matches runs of two or more word characters, the same tokens
// scikit-learn's default `(?u)\b\w\w+\b` pattern yields.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer converts normalized text into an L2-normalized TF-IDF vector
// over a fixed vocabulary. Feature index is the vocabulary line number.
type Vectorizer struct {
	index map[string]int
	idf   []float32
}

// NewVectorizer builds a Vectorizer from parallel token and idf slices.
func NewVectorizer(tokens []string, idf []float32) (*Vectorizer, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("vectorizer: empty vocabulary")
	}
	if len(idf) != len(tokens) {
		return nil, fmt.Errorf("vectorizer: %d tokens but %d idf weights", len(tokens), len(idf))
	}
	v := &Vectorizer{
		index: make(map[string]int, len(tokens)),
		idf:   make([]float32, len(idf)),
	}
	copy(v.idf, idf)
	for i, tok := range tokens {
		if _, dup := v.index[tok]; dup {
			return nil, fmt.Errorf("vectorizer: duplicate token %q", tok)
		}
		v.index[tok] = i
	}
	return v, nil
}

// LoadVectorizer reads a vocabulary file with one `token<TAB>idf` entry per
// line. A missing idf column means weight 1.
func LoadVectorizer(path string) (*Vectorizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vectorizer: %w", err)
	}
	defer f.Close()

	var (
		tokens []string
		idf    []float32
	)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		tok, weight, hasWeight := strings.Cut(scanner.Text(), "\t")
		if tok == "" {
			return nil, fmt.Errorf("vectorizer: %s:%d: empty token", path, line)
		}
		w := float32(1)
		if hasWeight {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(weight), 32)
			if err != nil {
				return nil, fmt.Errorf("vectorizer: %s:%d: %w", path, line, err)
			}
			w = float32(parsed)
		}
		tokens = append(tokens, tok)
		idf = append(idf, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vectorizer: read error: %w", err)
	}
	return NewVectorizer(tokens, idf)
}

// Size returns the feature dimensionality.
func (v *Vectorizer) Size() int {
	return len(v.idf)
}

// Transform returns the feature vector for text. Out-of-vocabulary tokens are
// ignored; text with no known tokens yields the zero vector.
func (v *Vectorizer) Transform(text string) []float32 {
	out := make([]float32, len(v.idf))
	for _, tok := range wordPattern.FindAllString(text, -1) {
		if i, ok := v.index[tok]; ok {
			out[i]++
		}
	}

	var norm float64
	for i, tf := range out {
		if tf == 0 {
			continue
		}
		out[i] = tf * v.idf[i]
		norm += float64(out[i]) * float64(out[i])
	}
	if norm == 0 {
		return out
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range out {
		out[i] *= inv
	}
	return out
}
