package agronomy

import (
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// StageBand is a half-open DAP interval [Start, End)
type StageBand struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// StageBands holds the variety-specific DAP ranges for the four growing
// stages. A DAP at or beyond Maturity.End classifies as harvest-ready.
// A zero value means "use the default bands".
type StageBands struct {
	Germination StageBand `yaml:"germination"`
	Tillering   StageBand `yaml:"tillering"`
	GrandGrowth StageBand `yaml:"grandGrowth"`
	Maturity    StageBand `yaml:"maturity"`
}

// IsZero reports whether no bands were configured for the variety
func (b StageBands) IsZero() bool {
	return b == StageBands{}
}

// MonthRange is an inclusive range of whole calendar months
type MonthRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// VarietyProfile is the static growth knowledge for one sugarcane variety
type VarietyProfile struct {
	Name           string     `yaml:"name"`
	Aliases        []string   `yaml:"aliases"`
	Stages         StageBands `yaml:"stages"`
	InitialHarvest MonthRange `yaml:"initialHarvest"`
	RatoonHarvest  MonthRange `yaml:"ratoonHarvest"`
}

// DefaultStageBands are used when a variety has no bands of its own
var DefaultStageBands = StageBands{
	Germination: StageBand{Start: 0, End: 35},
	Tillering:   StageBand{Start: 35, End: 120},
	GrandGrowth: StageBand{Start: 120, End: 270},
	Maturity:    StageBand{Start: 270, End: 360},
}

// DefaultProfile is substituted when a variety cannot be resolved. Business
// data is not guaranteed complete, so unknown varieties degrade to this
// profile instead of failing.
var DefaultProfile = VarietyProfile{
	Name:           "DEFAULT",
	Stages:         DefaultStageBands,
	InitialHarvest: MonthRange{Min: 9, Max: 11},
	RatoonHarvest:  MonthRange{Min: 8, Max: 10},
}

// builtinProfiles is the shipped variety knowledge base. A YAML overlay from
// configuration can add to or replace entries at startup.
var builtinProfiles = []VarietyProfile{
	{
		Name:           "PS 1",
		Aliases:        []string{"VMC 84-947"},
		InitialHarvest: MonthRange{Min: 11, Max: 12},
		RatoonHarvest:  MonthRange{Min: 10, Max: 11},
	},
	{
		Name:           "PS 2",
		Aliases:        []string{"VMC 95-152"},
		InitialHarvest: MonthRange{Min: 12, Max: 14},
		RatoonHarvest:  MonthRange{Min: 11, Max: 12},
	},
	{
		Name:           "Phil 8013",
		InitialHarvest: MonthRange{Min: 10, Max: 12},
		RatoonHarvest:  MonthRange{Min: 9, Max: 11},
	},
	{
		Name:    "VMC 86-550",
		Aliases: []string{"VMC 86550"},
		Stages: StageBands{
			Germination: StageBand{Start: 0, End: 40},
			Tillering:   StageBand{Start: 40, End: 130},
			GrandGrowth: StageBand{Start: 130, End: 300},
			Maturity:    StageBand{Start: 300, End: 400},
		},
		InitialHarvest: MonthRange{Min: 12, Max: 14},
		RatoonHarvest:  MonthRange{Min: 11, Max: 12},
	},
	{
		Name:           "LCP 85-384",
		InitialHarvest: MonthRange{Min: 9, Max: 11},
		RatoonHarvest:  MonthRange{Min: 8, Max: 10},
	},
}

// Catalog is the variety knowledge base: an immutable lookup from canonical
// variety names (and aliases) to growth profiles, loaded once at startup and
// passed to whoever needs it.
type Catalog struct {
	profiles map[string]VarietyProfile // canonical key -> profile
	aliases  map[string]string         // alias key -> canonical key
	logger   *zap.Logger
}

// NewCatalog builds a catalog from the built-in profiles
func NewCatalog(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{
		profiles: make(map[string]VarietyProfile),
		aliases:  make(map[string]string),
		logger:   logger,
	}
	for _, p := range builtinProfiles {
		c.add(p)
	}
	return c
}

// LoadOverlay merges additional or replacement profiles from YAML data
func (c *Catalog) LoadOverlay(data []byte) error {
	var overlay struct {
		Varieties []VarietyProfile `yaml:"varieties"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}
	for _, p := range overlay.Varieties {
		c.add(p)
	}
	return nil
}

func (c *Catalog) add(p VarietyProfile) {
	key := canonicalKey(p.Name)
	if key == "" {
		return
	}
	c.profiles[key] = p
	for _, alias := range p.Aliases {
		if ak := canonicalKey(alias); ak != "" {
			c.aliases[ak] = key
		}
	}
}

// Names returns the canonical names of all known varieties
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for _, p := range c.profiles {
		names = append(names, p.Name)
	}
	return names
}

// Resolve maps a free-form variety string to its growth profile. The input
// may carry a dropdown suffix ("PS 1 — 11-12 months"), a slash alias list
// ("PS 1 / VMC 84-947") or an "or"-joined alias list; the first token before
// any separator is the candidate. When the candidate is unknown, every known
// key is checked as a substring of the raw input. An unresolvable variety is
// not an error: it logs a warning and returns DefaultProfile with ok=false.
func (c *Catalog) Resolve(raw string) (VarietyProfile, bool) {
	candidate := firstToken(raw)

	if p, ok := c.lookup(candidate); ok {
		return p, true
	}

	// Substring scan over the whole raw string, aliases included
	rawKey := canonicalKey(raw)
	for key, p := range c.profiles {
		if strings.Contains(rawKey, key) {
			return p, true
		}
	}
	for alias, key := range c.aliases {
		if strings.Contains(rawKey, alias) {
			return c.profiles[key], true
		}
	}

	c.logger.Warn("Unknown sugarcane variety, using default growth profile",
		zap.String("variety", raw),
	)
	return DefaultProfile, false
}

func (c *Catalog) lookup(name string) (VarietyProfile, bool) {
	key := canonicalKey(name)
	if p, ok := c.profiles[key]; ok {
		return p, true
	}
	if canonical, ok := c.aliases[key]; ok {
		return c.profiles[canonical], true
	}
	return VarietyProfile{}, false
}

// firstToken trims the variety string down to the part before any separator
func firstToken(raw string) string {
	s := raw
	for _, sep := range []string{"—", "/", " or ", " OR ", " Or "} {
		if idx := strings.Index(s, sep); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// canonicalKey lower-cases and collapses whitespace so "ps 1", "PS  1" and
// "Ps 1" all hit the same entry
func canonicalKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
