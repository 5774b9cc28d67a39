package plan

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Unlimited is the maxListings value of plans without a listing cap.
const Unlimited = -1

//go:embed plans.yaml
var defaultCatalog []byte

type Plan struct {
	ID                string  `yaml:"id" json:"id"`
	Name              string  `yaml:"name" json:"name"`
	Price             float64 `yaml:"price" json:"price"`
	MaxListings       int     `yaml:"maxListings" json:"maxListings"`
	BillingPeriodDays int     `yaml:"billingPeriodDays" json:"billingPeriodDays"`
}

func (p Plan) BillingPeriod() time.Duration {
	return time.Duration(p.BillingPeriodDays) * 24 * time.Hour
}

type Catalog struct {
	DefaultID string `yaml:"default"`
	Plans     []Plan `yaml:"plans"`

	byID map[string]Plan
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan catalog: %w", err)
	}
	return Parse(data)
}

func MustDefault() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse plan catalog: %w", err)
	}
	if len(c.Plans) == 0 {
		return nil, fmt.Errorf("plan catalog has no plans")
	}

	c.byID = make(map[string]Plan, len(c.Plans))
	for _, p := range c.Plans {
		if p.ID == "" {
			return nil, fmt.Errorf("plan catalog entry without id")
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plan %q", p.ID)
		}
		if p.BillingPeriodDays <= 0 {
			p.BillingPeriodDays = 30
		}
		c.byID[p.ID] = p
	}
	if c.DefaultID == "" {
		c.DefaultID = c.Plans[0].ID
	}
	if _, ok := c.byID[c.DefaultID]; !ok {
		return nil, fmt.Errorf("default plan %q is not in the catalog", c.DefaultID)
	}
	return &c, nil
}

func (c *Catalog) Get(id string) (Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}

func (c *Catalog) Default() Plan {
	return c.byID[c.DefaultID]
}

func (c *Catalog) IsDefault(id string) bool {
	return id == c.DefaultID
}

// MaxListings maps a plan id to its listing cap. Unknown plans get a cap
// of one.
func (c *Catalog) MaxListings(id string) int {
	if p, ok := c.byID[id]; ok {
		return p.MaxListings
	}
	return 1
}

func (c *Catalog) All() []Plan {
	out := make([]Plan, len(c.Plans))
	for i, p := range c.Plans {
		out[i] = c.byID[p.ID]
	}
	return out
}
