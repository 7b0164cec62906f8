package knowledge

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/leafcheck/internal/model"
)

// table is the on-disk layout of a disease table.
type table struct {
	Default  string                `yaml:"default"`
	Diseases []model.DiseaseRecord `yaml:"diseases"`
}

// Base is the read-only disease knowledge base. It is built once at startup
// and never mutated, so concurrent reads need no locking.
type Base struct {
	records []model.DiseaseRecord
	index   map[string]int
	def     int
}

// Parse decodes and validates a YAML disease table.
func Parse(data []byte) (*Base, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("knowledge: decode: %w", err)
	}
	return New(t.Diseases, t.Default)
}

// New builds a Base from records. defaultLabel names the record returned by
// Lookup for labels that have no entry.
func New(records []model.DiseaseRecord, defaultLabel string) (*Base, error) {
	b := &Base{
		records: make([]model.DiseaseRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	ids := make(map[string]string, len(records))

	for i, r := range records {
		if r.Label == "" {
			return nil, fmt.Errorf("knowledge: record %d has no label", i)
		}
		if r.ID == "" {
			return nil, fmt.Errorf("knowledge: %s: missing id", r.Label)
		}
		if _, dup := b.index[r.Label]; dup {
			return nil, fmt.Errorf("knowledge: duplicate label %q", r.Label)
		}
		if other, dup := ids[r.ID]; dup {
			return nil, fmt.Errorf("knowledge: id %q shared by %s and %s", r.ID, other, r.Label)
		}
		if !r.Category.Valid() {
			return nil, fmt.Errorf("knowledge: %s: unknown category %q", r.Label, r.Category)
		}
		if !r.Severity.Valid() {
			return nil, fmt.Errorf("knowledge: %s: unknown severity %q", r.Label, r.Severity)
		}
		if !r.RiskLevel.Valid() {
			return nil, fmt.Errorf("knowledge: %s: unknown risk level %q", r.Label, r.RiskLevel)
		}
		ids[r.ID] = r.Label
		b.index[r.Label] = len(b.records)
		b.records = append(b.records, r.Clone())
	}

	def, ok := b.index[defaultLabel]
	if !ok {
		return nil, fmt.Errorf("knowledge: default label %q has no record", defaultLabel)
	}
	b.def = def
	return b, nil
}

// Lookup returns the record for label. Labels with no entry resolve to the
// default record; this is the permissive path used for model predictions.
func (b *Base) Lookup(label string) model.DiseaseRecord {
	if i, ok := b.index[label]; ok {
		return b.records[i].Clone()
	}
	return b.records[b.def].Clone()
}

// Get returns the record for label, or model.ErrUnknownLabel. This is the
// strict path used for direct lookups.
func (b *Base) Get(label string) (model.DiseaseRecord, error) {
	i, ok := b.index[label]
	if !ok {
		return model.DiseaseRecord{}, fmt.Errorf("%w: %q", model.ErrUnknownLabel, label)
	}
	return b.records[i].Clone(), nil
}

// Has reports whether label has its own record.
func (b *Base) Has(label string) bool {
	_, ok := b.index[label]
	return ok
}

// Default returns the fallback record.
func (b *Base) Default() model.DiseaseRecord {
	return b.records[b.def].Clone()
}

// Labels returns every label in table order.
func (b *Base) Labels() []string {
	out := make([]string, len(b.records))
	for i, r := range b.records {
		out[i] = r.Label
	}
	return out
}

// Missing returns the labels from want that have no record of their own.
func (b *Base) Missing(want []string) []string {
	var out []string
	for _, l := range want {
		if !b.Has(l) {
			out = append(out, l)
		}
	}
	return out
}
