package topics

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Generator produces menus. Implementations must be deterministic for a given input
// so that retried requests yield the same menu.
type Generator interface {
	// RootMenu returns the first menu offered for topic.
	RootMenu(topic string) []string

	// Submenu returns the menu offered after item was selected.
	// path holds the labels selected before item.
	Submenu(topic string, path []string, item string) []string
}

// Placeholders expanded in catalog labels.
const (
	PlaceholderTopic = "{topic}"
	PlaceholderItem  = "{item}"
)

// Rule maps selections containing Match (case-insensitive) to a fixed submenu.
type Rule struct {
	Match string   `yaml:"match" json:"match"`
	Items []string `yaml:"items" json:"items"`
}

// Catalog is a keyword-matched Generator. Rules are evaluated in order; the first
// match wins and Fallback is used when nothing matches.
type Catalog struct {
	Root     []string `yaml:"root" json:"root"`
	Rules    []Rule   `yaml:"rules" json:"rules"`
	Fallback []string `yaml:"fallback" json:"fallback"`
}

var _ Generator = (*Catalog)(nil)

// DefaultCatalog returns the built-in keyword table.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Root: []string{
			"History of {topic}",
			"Key Concepts in {topic}",
			"Applications of {topic}",
			"Future of {topic}",
		},
		Rules: []Rule{
			{Match: "history", Items: []string{"Early History", "Mid-20th Century", "Recent Developments"}},
			{Match: "concepts", Items: []string{"Core Idea A", "Core Idea B", "Related Theories"}},
			{Match: "applications", Items: []string{"Practical Use Case 1", "Industry Examples", "Research Areas"}},
		},
		Fallback: []string{"Sub-item for {item} 1", "Sub-item 2", "Sub-item 3"},
	}
}

// ParseCatalog decodes a YAML (or JSON, which is valid YAML) catalog and validates it.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadCatalog reads a catalog file. A missing file yields the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// Validate checks that every menu the catalog can produce is non-empty.
func (c *Catalog) Validate() error {
	if len(c.Root) == 0 {
		return errors.New("catalog: root menu is empty")
	}
	if len(c.Fallback) == 0 {
		return errors.New("catalog: fallback menu is empty")
	}
	for i, r := range c.Rules {
		if strings.TrimSpace(r.Match) == "" {
			return fmt.Errorf("catalog: rule %d has no match keyword", i)
		}
		if len(r.Items) == 0 {
			return fmt.Errorf("catalog: rule %q has no items", r.Match)
		}
	}
	return nil
}

// RootMenu implements Generator.
func (c *Catalog) RootMenu(topic string) []string {
	return expand(c.Root, topic, "")
}

// Submenu implements Generator.
func (c *Catalog) Submenu(topic string, path []string, item string) []string {
	lower := strings.ToLower(item)
	for _, r := range c.Rules {
		if strings.Contains(lower, strings.ToLower(r.Match)) {
			return expand(r.Items, topic, item)
		}
	}
	return expand(c.Fallback, topic, item)
}

func expand(labels []string, topic, item string) []string {
	rep := strings.NewReplacer(PlaceholderTopic, topic, PlaceholderItem, item)
	out := slices.Clone(labels)
	for i, l := range out {
		out[i] = rep.Replace(l)
	}
	return out
}
