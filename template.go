package mktree

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultCatalogYAML []byte

var defaultCatalog = mustParseCatalog(defaultCatalogYAML)

type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Template is a named project archetype.
type Template struct {
	ID               string   `yaml:"id"`
	Title            string   `yaml:"title"`
	Keywords         []string `yaml:"keywords"`
	EnhancedKeywords []string `yaml:"enhancedKeywords"`
	Structure        string   `yaml:"structure"`
	Tips             []string `yaml:"tips"`
}

// ContextGroup is a family of technology words that adds advice and extra
// folders in enhanced mode.
type ContextGroup struct {
	Name       string   `yaml:"name"`
	Keywords   []string `yaml:"keywords"`
	Suggestion string   `yaml:"suggestion"`
	Structure  string   `yaml:"structure"`
	SkipIf     string   `yaml:"skipIf"`
}

// enhancedRef names a template that takes part in enhanced scoring. A
// non-empty Structure replaces the template's own.
type enhancedRef struct {
	ID        string `yaml:"id"`
	Structure string `yaml:"structure"`
}

type catalogFile struct {
	General   Template       `yaml:"general"`
	Context   []ContextGroup `yaml:"context"`
	Templates []Template     `yaml:"templates"`
	Enhanced  []enhancedRef  `yaml:"enhanced"`
}

// Catalog is the ordered, read-only set of templates. Enhanced scoring has
// its own ordered table; it defaults to every template.
type Catalog struct {
	general   Template
	context   []ContextGroup
	templates []Template
	enhanced  []Template
}

func DefaultCatalog() *Catalog { return defaultCatalog }

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if isBlank(f.General.Structure) {
		return nil, errors.New("general template has no structure")
	}
	if f.General.ID == "" {
		f.General.ID = "general"
	}

	seen := make(map[string]bool, len(f.Templates))
	for i, t := range f.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template %d has no id", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
		if len(t.Keywords) == 0 || isBlank(t.Structure) {
			return nil, fmt.Errorf("template %q needs keywords and a structure", t.ID)
		}
		if t.Title == "" {
			f.Templates[i].Title = t.ID
		}
	}

	c := &Catalog{general: f.General, context: f.Context, templates: f.Templates}
	enhanced, err := c.enhancedTable(f.Enhanced)
	if err != nil {
		return nil, err
	}
	c.enhanced = enhanced
	return c, nil
}

// enhancedTable resolves refs against the templates, merging the enhanced
// keywords into each entry.
func (c *Catalog) enhancedTable(refs []enhancedRef) ([]Template, error) {
	if len(refs) == 0 {
		for _, t := range c.templates {
			refs = append(refs, enhancedRef{ID: t.ID})
		}
	}

	seen := make(map[string]bool, len(refs))
	out := make([]Template, 0, len(refs))
	for _, ref := range refs {
		t, ok := c.Lookup(ref.ID)
		if !ok || ref.ID == c.general.ID {
			return nil, fmt.Errorf("enhanced entry %q is not a template", ref.ID)
		}
		if seen[ref.ID] {
			return nil, fmt.Errorf("duplicate enhanced entry %q", ref.ID)
		}
		seen[ref.ID] = true

		t.Keywords = append(append([]string(nil), t.Keywords...), t.EnhancedKeywords...)
		t.EnhancedKeywords = nil
		if !isBlank(ref.Structure) {
			t.Structure = ref.Structure
		}
		out = append(out, t)
	}
	return out, nil
}

func mustParseCatalog(data []byte) *Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Templates returns the archetypes in match order.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// EnhancedTemplates returns the enhanced scoring table in match order.
func (c *Catalog) EnhancedTemplates() []Template {
	out := make([]Template, len(c.enhanced))
	copy(out, c.enhanced)
	return out
}

func (c *Catalog) General() Template { return c.general }

func (c *Catalog) Lookup(id string) (Template, bool) {
	if id == c.general.ID {
		return c.general, true
	}
	for _, t := range c.templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Analysis is the outcome of scoring one description.
type Analysis struct {
	Template   Template
	Score      int
	Confidence Confidence
	Matched    []string
	Context    map[string][]string
	Tips       []string
	// Fallback is set when nothing matched and the general template was used.
	Fallback  bool
	Structure string
}

type Selector struct {
	catalog  *Catalog
	enhanced bool
}

// NewSelector scores against catalog, or the built-in catalog when nil.
// Enhanced turns on the weighted scoring and context detection.
func NewSelector(catalog *Catalog, enhanced bool) *Selector {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Selector{catalog: catalog, enhanced: enhanced}
}

func (s *Selector) Analyze(description string) Analysis {
	folded := Fold(description)
	tokens := strings.Fields(folded)

	table := s.catalog.templates
	if s.enhanced {
		table = s.catalog.enhanced
	}

	var best Analysis
	found := false
	for _, t := range table {
		score, matched := s.score(t, folded, tokens)
		if !found || score > best.Score {
			best = Analysis{Template: t, Score: score, Matched: matched}
			found = true
		}
	}
	if !found || best.Score == 0 {
		best = Analysis{Template: s.catalog.general, Fallback: true}
	}
	best.Confidence = s.confidence(best.Score)

	// only enhanced mode gives advice
	if s.enhanced {
		best.Tips = append([]string(nil), best.Template.Tips...)
		best.Context = s.detectContext(folded)
		for _, g := range s.catalog.context {
			if kws := best.Context[g.Name]; len(kws) > 0 && g.Suggestion != "" {
				best.Tips = append(best.Tips, fmt.Sprintf(g.Suggestion, kws[0]))
			}
		}
		if len(best.Tips) > 3 {
			best.Tips = best.Tips[:3]
		}
	}
	best.Structure = s.structure(best)
	return best
}

func (s *Selector) score(t Template, folded string, tokens []string) (int, []string) {
	score := 0
	var matched []string
	for _, kw := range t.Keywords {
		kw = strings.ToLower(kw)
		switch {
		case strings.Contains(folded, kw):
			if s.enhanced && utf8.RuneCountInString(kw) > 5 {
				score += 3
			} else {
				score += 2
			}
			matched = append(matched, kw)
		case partialMatch(kw, tokens):
			score++
			matched = append(matched, kw)
		}
	}
	return score, matched
}

func partialMatch(kw string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(kw, tok) || strings.Contains(tok, kw) {
			return true
		}
	}
	return false
}

func (s *Selector) confidence(score int) Confidence {
	high, medium := 3, 1
	if s.enhanced {
		high, medium = 4, 2
	}
	switch {
	case score >= high:
		return ConfidenceHigh
	case score >= medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func (s *Selector) detectContext(folded string) map[string][]string {
	found := make(map[string][]string)
	for _, g := range s.catalog.context {
		for _, kw := range g.Keywords {
			if strings.Contains(folded, strings.ToLower(kw)) {
				found[g.Name] = append(found[g.Name], kw)
			}
		}
	}
	return found
}

func (s *Selector) structure(a Analysis) string {
	structure := strings.TrimSpace(a.Template.Structure)
	if !s.enhanced || a.Fallback {
		return structure
	}
	for _, g := range s.catalog.context {
		if len(a.Context[g.Name]) == 0 || isBlank(g.Structure) {
			continue
		}
		if g.SkipIf != "" && strings.Contains(structure, g.SkipIf) {
			continue
		}
		structure += "\n" + strings.TrimSpace(g.Structure)
	}
	return structure
}

// Suggest returns the structure text for the best matching template.
func (s *Selector) Suggest(description string) string {
	return s.Analyze(description).Structure
}

// Chat phrases an analysis as a short assistant reply.
func (s *Selector) Chat(message string) string {
	return ChatReply(s.Analyze(message))
}

func ChatReply(a Analysis) string {
	if a.Fallback {
		return "I'll create a general project structure for you. Try being more specific about your project type for better results!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I detected a %s project! ", a.Template.Title)
	if len(a.Matched) > 0 {
		kws := a.Matched
		if len(kws) > 3 {
			kws = kws[:3]
		}
		fmt.Fprintf(&b, "Keywords found: %s. ", strings.Join(kws, ", "))
	}
	fmt.Fprintf(&b, "Confidence: %s.", a.Confidence)
	if len(a.Tips) > 0 {
		b.WriteString("\n\n💡 Tips:\n• " + strings.Join(a.Tips, "\n• "))
	}
	return b.String()
}

// Fold lowercases s and strips diacritics so "Café" matches "cafe".
func Fold(s string) string {
	lower := cases.Lower(language.Und).String(s)
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, norm.NFD.String(lower))
}
