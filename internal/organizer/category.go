package organizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OtherCategory is the catch-all for unmatched extensions
const OtherCategory = "Other"

// postmanMarker claims compound suffixes like ".postman_collection.json"
const postmanMarker = "postman_collection"

// Category is a named bucket and the extensions that land in it
type Category struct {
	Name       string   `toml:"name" json:"name"`
	Extensions []string `toml:"extensions" json:"extensions"`
}

// Has reports whether ext (already folded) is one of the category's extensions
func (c Category) Has(ext string) bool {
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// DefaultCategories returns the built-in category table in lookup order
func DefaultCategories() []Category {
	return []Category{
		{"Images", []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".ico", ".heic", ".heif"}},
		{"Videos", []string{".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm"}},
		{"Audio", []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a"}},
		{"Documents", []string{".pdf", ".doc", ".docx", ".txt", ".odt", ".rtf", ".tex", ".md", ".markdown"}},
		{"Spreadsheets", []string{".xls", ".xlsx", ".csv", ".ods"}},
		{"Presentations", []string{".ppt", ".pptx", ".odp"}},
		{"Archives", []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
		{"Code", []string{".py", ".js", ".java", ".cpp", ".c", ".h", ".cs", ".html", ".css", ".php", ".rb", ".go", ".rs", ".sql"}},
		{"Config", []string{".yml", ".yaml", ".json", ".xml", ".toml", ".ini", ".env"}},
		{"Executables", []string{".exe", ".msi", ".app", ".deb", ".rpm"}},
		{OtherCategory, nil},
	}
}

// Classifier resolves extensions to category names. Custom rules are checked
// first, in insertion order, then the built-in table. A Classifier is not
// safe for concurrent use.
type Classifier struct {
	builtin []Category
	custom  []Category
	lower   cases.Caser
}

// NewClassifier creates a classifier over the given built-in table.
// A nil table means DefaultCategories.
func NewClassifier(builtin []Category) *Classifier {
	if builtin == nil {
		builtin = DefaultCategories()
	}
	c := &Classifier{lower: cases.Lower(language.Und)}
	c.builtin = make([]Category, len(builtin))
	for i, cat := range builtin {
		c.builtin[i] = Category{Name: cat.Name, Extensions: c.normalize(cat.Extensions)}
	}
	return c
}

// fold lower-cases an extension. Unicode-aware so ".JPG" and ".jpg" always
// resolve the same way.
func (c *Classifier) fold(ext string) string {
	return c.lower.String(ext)
}

// normalize lower-cases extensions and adds the leading dot
func (c *Classifier) normalize(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, c.fold(ext))
	}
	return out
}

// Classify returns the category for ext. It never fails; unmatched
// extensions (including "" and dotless strings) resolve to Other.
func (c *Classifier) Classify(ext string) string {
	folded := c.fold(ext)

	for _, rule := range c.custom {
		if rule.Has(folded) {
			return rule.Name
		}
	}

	if strings.Contains(folded, postmanMarker) {
		return "Config"
	}

	for _, cat := range c.builtin {
		if cat.Has(folded) {
			return cat.Name
		}
	}

	return OtherCategory
}

// AddRule adds or replaces a custom rule. A rule with the same name keeps its
// position; a new rule goes last.
func (c *Classifier) AddRule(name string, exts []string) {
	rule := Category{Name: name, Extensions: c.normalize(exts)}

	for i := range c.custom {
		if c.custom[i].Name == name {
			c.custom[i] = rule
			return
		}
	}
	c.custom = append(c.custom, rule)
}

// RemoveRule deletes a custom rule, reporting whether it existed
func (c *Classifier) RemoveRule(name string) bool {
	for i := range c.custom {
		if c.custom[i].Name == name {
			c.custom = append(c.custom[:i], c.custom[i+1:]...)
			return true
		}
	}
	return false
}

// CustomRules returns a copy of the custom rules in insertion order
func (c *Classifier) CustomRules() []Category {
	return copyCategories(c.custom)
}

// BuiltinRules returns a copy of the built-in table
func (c *Classifier) BuiltinRules() []Category {
	return copyCategories(c.builtin)
}

func copyCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, cat := range in {
		out[i] = Category{Name: cat.Name, Extensions: append([]string(nil), cat.Extensions...)}
	}
	return out
}
