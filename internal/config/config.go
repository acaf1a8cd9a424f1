package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Points is a fixed-point score for YAML parsing: "1464.26" becomes 146426
// centipoints. Scores never pass through a float.
type Points struct {
	Centi int
}

func (p *Points) UnmarshalYAML(value *yaml.Node) error {
	centi, err := ParsePoints(value.Value)
	if err != nil {
		return err
	}
	p.Centi = centi
	return nil
}

func (p Points) String() string {
	return FormatPoints(p.Centi)
}

// ParsePoints converts a decimal score string to centipoints without
// floating-point arithmetic. At most two fractional digits are allowed.
func ParsePoints(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid points %q", s)
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("invalid points %q: at most two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	// Atoi alone would accept an embedded sign, e.g. "12.-5".
	for _, part := range []string{whole, frac} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return 0, fmt.Errorf("invalid points %q: digits only", s)
			}
		}
	}
	w, err := strconv.Atoi(whole)
	if err != nil {
		return 0, fmt.Errorf("invalid points %q: %w", s, err)
	}
	f, err := strconv.Atoi(frac)
	if err != nil {
		return 0, fmt.Errorf("invalid points %q: %w", s, err)
	}
	centi := w*100 + f
	if neg {
		centi = -centi
	}
	return centi, nil
}

// FormatPoints renders centipoints as a decimal string, e.g. 146426 -> "1464.26".
func FormatPoints(centi int) string {
	sign := ""
	if centi < 0 {
		sign = "-"
		centi = -centi
	}
	return fmt.Sprintf("%s%d.%02d", sign, centi/100, centi%100)
}

type TeamEntry struct {
	Name   string `yaml:"name"`
	Wins   int    `yaml:"wins"`
	Points Points `yaml:"points"`
}

type MatchupEntry struct {
	Home string `yaml:"home"`
	Away string `yaml:"away"`
}

// Scores bounds the plausible weekly score range. The bounds keep the
// search space finite; they do not model a scoring distribution.
type Scores struct {
	Min Points `yaml:"min"`
	Max Points `yaml:"max"`
}

// Solver holds analysis budgets.
type Solver struct {
	MaxQueries    int `yaml:"max_queries"`
	MaxSufficient int `yaml:"max_sufficient"`
}

type Config struct {
	Teams    []TeamEntry    `yaml:"teams"`
	Matchups []MatchupEntry `yaml:"matchups"`
	Scores   Scores         `yaml:"scores"`
	Solver   Solver         `yaml:"solver"`
}

// Defaults applied when the corresponding config values are absent.
const (
	DefaultScoreMin      = 5000  // 50.00 points
	DefaultScoreMax      = 20000 // 200.00 points
	DefaultMaxQueries    = 25000
	DefaultMaxSufficient = 8
)

// LoadFromBytes parses YAML bytes into a Config, applies defaults, and
// validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) applyDefaults() {
	if c.Scores.Min.Centi == 0 && c.Scores.Max.Centi == 0 {
		c.Scores.Min.Centi = DefaultScoreMin
		c.Scores.Max.Centi = DefaultScoreMax
	}
	if c.Solver.MaxQueries == 0 {
		c.Solver.MaxQueries = DefaultMaxQueries
	}
	if c.Solver.MaxSufficient == 0 {
		c.Solver.MaxSufficient = DefaultMaxSufficient
	}
}

func (c *Config) validate() error {
	if len(c.Teams) < 2 {
		return fmt.Errorf("at least two teams are required")
	}
	for _, t := range c.Teams {
		if t.Name == "" {
			return fmt.Errorf("every team needs a name")
		}
		if t.Wins < 0 {
			return fmt.Errorf("team %q: wins cannot be negative", t.Name)
		}
		if t.Points.Centi < 0 {
			return fmt.Errorf("team %q: points cannot be negative", t.Name)
		}
	}
	for i, m := range c.Matchups {
		if m.Home == "" || m.Away == "" {
			return fmt.Errorf("matchup %d: both home and away are required", i+1)
		}
	}
	if c.Scores.Min.Centi >= c.Scores.Max.Centi {
		return fmt.Errorf("scores.min (%s) must be below scores.max (%s)", c.Scores.Min, c.Scores.Max)
	}
	if c.Solver.MaxQueries < 1 {
		return fmt.Errorf("solver.max_queries must be positive")
	}
	if c.Solver.MaxSufficient < 1 {
		return fmt.Errorf("solver.max_sufficient must be positive")
	}
	return nil
}
