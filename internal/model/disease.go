package model

// Category is the biological cause of a disease.
type Category string

const (
	CategoryFungal    Category = "fungal"
	CategoryBacterial Category = "bacterial"
	CategoryViral     Category = "viral"
	CategoryPest      Category = "pest"
	CategoryHealthy   Category = "healthy"
)

var categoryLabels = map[Category]string{
	CategoryFungal:    "فطري",
	CategoryBacterial: "بكتيري",
	CategoryViral:     "فيروسي",
	CategoryPest:      "آفة حشرية",
	CategoryHealthy:   "سليم",
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the localized display text for c.
func (c Category) Label() string {
	return categoryLabels[c]
}

// Severity is an ordinal rating of how damaging a disease is.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

var severityLabels = map[Severity]string{
	SeverityNone:   "لا يوجد",
	SeverityLow:    "منخفض",
	SeverityMedium: "متوسط",
	SeverityHigh:   "عالي",
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	_, ok := severityLabels[s]
	return ok
}

// Label returns the localized display text for s.
func (s Severity) Label() string {
	return severityLabels[s]
}

// RiskLevel is the spread risk reported to growers.
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether r is one of the known risk levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskNone, RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Treatment is a three-tier treatment plan. Each tier is an ordered list of actions.
type Treatment struct {
	Immediate  []string `json:"immediate" yaml:"immediate"`
	Biological []string `json:"biological" yaml:"biological"`
	Preventive []string `json:"prevention" yaml:"prevention"`
}

// Clone returns a deep copy of t.
func (t Treatment) Clone() Treatment {
	return Treatment{
		Immediate:  cloneStrings(t.Immediate),
		Biological: cloneStrings(t.Biological),
		Preventive: cloneStrings(t.Preventive),
	}
}

// DiseaseRecord is one knowledge-base entry, keyed by the classifier label.
type DiseaseRecord struct {
	Label          string    `json:"class" yaml:"label"`
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	ArabicName     string    `json:"arabic_name" yaml:"arabic_name"`
	Category       Category  `json:"type" yaml:"category"`
	Severity       Severity  `json:"severity" yaml:"severity"`
	Symptoms       []string  `json:"symptoms" yaml:"symptoms"`
	Treatment      Treatment `json:"treatment" yaml:"treatment"`
	Transmission   string    `json:"transmission" yaml:"transmission"`
	RiskLevel      RiskLevel `json:"risk_level" yaml:"risk_level"`
	PreventionTips string    `json:"prevention_tips,omitempty" yaml:"prevention_tips"`
}

// Clone returns a deep copy of r so callers can't mutate shared table state.
func (r DiseaseRecord) Clone() DiseaseRecord {
	c := r
	c.Symptoms = cloneStrings(r.Symptoms)
	c.Treatment = r.Treatment.Clone()
	return c
}

// DiseaseSummary is the short form used in catalog listings.
type DiseaseSummary struct {
	Class      string   `json:"class"`
	Name       string   `json:"name"`
	ArabicName string   `json:"arabic_name"`
	Category   Category `json:"type"`
	Severity   Severity `json:"severity"`
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
