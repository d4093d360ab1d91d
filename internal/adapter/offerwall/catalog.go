package offerwall

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	domainErrors "github.com/polkiloo/buxiq/internal/domain/errors"
	"github.com/polkiloo/buxiq/internal/domain/model"
)

const userPlaceholder = "{user}"

//go:embed catalog.yaml
var defaultCatalog []byte

type entry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Logo        string `yaml:"logo"`
	Badge       string `yaml:"badge"`
	Kind        string `yaml:"kind"`
	Template    string `yaml:"template"`
	Untracked   bool   `yaml:"untracked"`
}

type document struct {
	Offerwalls []entry `yaml:"offerwalls"`
}

// Catalog holds the known offerwalls in display order.
type Catalog struct {
	walls []model.Offerwall
	byID  map[string]int
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading offerwall catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing offerwall catalog: %w", err)
	}
	if len(doc.Offerwalls) == 0 {
		return nil, fmt.Errorf("offerwall catalog is empty")
	}

	c := &Catalog{byID: make(map[string]int, len(doc.Offerwalls))}
	for _, e := range doc.Offerwalls {
		id := strings.ToLower(strings.TrimSpace(e.ID))
		if id == "" {
			return nil, fmt.Errorf("offerwall %q: id is required", e.Name)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("offerwall %q: duplicate id", id)
		}
		if e.Template == "" {
			return nil, fmt.Errorf("offerwall %q: template is required", id)
		}
		kind := model.LaunchKind(e.Kind)
		switch kind {
		case "":
			kind = model.LaunchURL
		case model.LaunchURL, model.LaunchSideEffect:
		default:
			return nil, fmt.Errorf("offerwall %q: unknown kind %q", id, e.Kind)
		}
		c.byID[id] = len(c.walls)
		c.walls = append(c.walls, model.Offerwall{
			ID:          id,
			Name:        e.Name,
			Category:    e.Category,
			Description: e.Description,
			Logo:        e.Logo,
			Badge:       e.Badge,
			Template:    e.Template,
			Kind:        kind,
			Tracked:     !e.Untracked,
		})
	}
	return c, nil
}

// List returns a copy of the catalog.
func (c *Catalog) List() []model.Offerwall {
	out := make([]model.Offerwall, len(c.walls))
	copy(out, c.walls)
	return out
}

// Lookup finds an offerwall by id, ignoring case.
func (c *Catalog) Lookup(id string) (model.Offerwall, bool) {
	idx, ok := c.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return model.Offerwall{}, false
	}
	return c.walls[idx], true
}

// Build renders the launch target of an offerwall for the given user.
func (c *Catalog) Build(id, username string) (model.OfferwallLaunch, error) {
	wall, ok := c.Lookup(id)
	if !ok {
		return model.OfferwallLaunch{}, domainErrors.ErrUnknownOfferwall
	}
	return model.OfferwallLaunch{Kind: wall.Kind, URL: Render(wall.Template, username)}, nil
}

// Render substitutes the user placeholder, escaping for the URL part it lands in.
func Render(template, username string) string {
	query := strings.Index(template, "?")
	var b strings.Builder
	rest := template
	offset := 0
	for {
		i := strings.Index(rest, userPlaceholder)
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:i])
		if query >= 0 && offset+i > query {
			b.WriteString(url.QueryEscape(username))
		} else {
			b.WriteString(url.PathEscape(username))
		}
		rest = rest[i+len(userPlaceholder):]
		offset += i + len(userPlaceholder)
	}
}
