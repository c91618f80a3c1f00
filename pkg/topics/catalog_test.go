package topics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ewallt/ai-subject-explorer/pkg/topics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := topics.DefaultCatalog()
	require.NoError(t, c.Validate())

	assert.Equal(t, []string{
		"History of Art",
		"Key Concepts in Art",
		"Applications of Art",
		"Future of Art",
	}, c.RootMenu("Art"))

	tests := []struct {
		item string
		want []string
	}{
		{"History of Art", []string{"Early History", "Mid-20th Century", "Recent Developments"}},
		{"Key Concepts in Art", []string{"Core Idea A", "Core Idea B", "Related Theories"}},
		{"APPLICATIONS of art", []string{"Practical Use Case 1", "Industry Examples", "Research Areas"}},
		{"Future of Art", []string{"Sub-item for Future of Art 1", "Sub-item 2", "Sub-item 3"}},
		// First matching rule wins.
		{"History of Concepts", []string{"Early History", "Mid-20th Century", "Recent Developments"}},
	}
	for _, tt := range tests {
		t.Run(tt.item, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Submenu("Art", nil, tt.item))
		})
	}
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := topics.DefaultCatalog()
	menu := c.Submenu("Art", nil, "History")
	menu[0] = "mutated"
	assert.Equal(t, "Early History", c.Submenu("Art", nil, "History")[0])
}

func TestParseCatalog(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c, err := topics.ParseCatalog([]byte(`
root: ["Origins of {topic}", "People in {topic}"]
rules:
  - match: people
    items: ["Pioneers", "Critics"]
fallback: ["More about {item}"]
`))
		require.NoError(t, err)
		assert.Equal(t, []string{"Origins of Jazz", "People in Jazz"}, c.RootMenu("Jazz"))
		assert.Equal(t, []string{"Pioneers", "Critics"}, c.Submenu("Jazz", nil, "People in Jazz"))
		assert.Equal(t, []string{"More about Origins of Jazz"}, c.Submenu("Jazz", nil, "Origins of Jazz"))
	})

	t.Run("Invalid", func(t *testing.T) {
		cases := map[string]string{
			"Syntax":         "root: [",
			"Empty Root":     "fallback: [x]",
			"Empty Fallback": "root: [x]",
			"Rule No Match":  "root: [x]\nfallback: [y]\nrules:\n  - items: [z]",
			"Rule No Items":  "root: [x]\nfallback: [y]\nrules:\n  - match: z",
		}
		for name, doc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := topics.ParseCatalog([]byte(doc))
				assert.Error(t, err)
			})
		}
	})
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()

	c, err := topics.LoadCatalog(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, topics.DefaultCatalog(), c)

	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: [a]\nfallback: [b]\n"), 0o644))
	c, err = topics.LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, c.RootMenu("x"))
}
