package config

import (
	"strings"
	"testing"
)

const testConfigYAML = `
teams:
  - {name: Hammers, wins: 10, points: 1464.26}
  - {name: Ramblers, wins: 7, points: 1452.24}
  - {name: Ospreys, wins: 7, points: 1412.26}
  - {name: Rovers, wins: 5, points: 1340.00}

matchups:
  - {home: Hammers, away: Ramblers}
  - {home: Ospreys, away: Rovers}

scores:
  min: 50.00
  max: 200.00

solver:
  max_queries: 1000
  max_sufficient: 4
`

func TestLoadFromBytes(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("teams", func(t *testing.T) {
		if len(cfg.Teams) != 4 {
			t.Fatalf("teams = %d, want 4", len(cfg.Teams))
		}
		first := cfg.Teams[0]
		if first.Name != "Hammers" || first.Wins != 10 || first.Points.Centi != 146426 {
			t.Errorf("first team = %+v, want Hammers, 10 wins, 146426 centipoints", first)
		}
	})

	t.Run("matchups", func(t *testing.T) {
		if len(cfg.Matchups) != 2 {
			t.Fatalf("matchups = %d, want 2", len(cfg.Matchups))
		}
		if cfg.Matchups[1].Home != "Ospreys" || cfg.Matchups[1].Away != "Rovers" {
			t.Errorf("matchup 2 = %+v, want Ospreys vs Rovers", cfg.Matchups[1])
		}
	})

	t.Run("scores and solver", func(t *testing.T) {
		if cfg.Scores.Min.Centi != 5000 || cfg.Scores.Max.Centi != 20000 {
			t.Errorf("scores = %s..%s, want 50.00..200.00", cfg.Scores.Min, cfg.Scores.Max)
		}
		if cfg.Solver.MaxQueries != 1000 || cfg.Solver.MaxSufficient != 4 {
			t.Errorf("solver = %+v, want 1000 queries, 4 sufficient", cfg.Solver)
		}
	})
}

func TestLoadFromBytesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
teams:
  - {name: Hammers, wins: 1, points: 100.00}
  - {name: Rovers, wins: 0, points: 90.00}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scores.Min.Centi != DefaultScoreMin || cfg.Scores.Max.Centi != DefaultScoreMax {
		t.Errorf("scores = %s..%s, want defaults", cfg.Scores.Min, cfg.Scores.Max)
	}
	if cfg.Solver.MaxQueries != DefaultMaxQueries {
		t.Errorf("max_queries = %d, want %d", cfg.Solver.MaxQueries, DefaultMaxQueries)
	}
	if cfg.Solver.MaxSufficient != DefaultMaxSufficient {
		t.Errorf("max_sufficient = %d, want %d", cfg.Solver.MaxSufficient, DefaultMaxSufficient)
	}
}

func TestLoadFromBytesInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "not yaml",
			yaml: "{teams: [",
			want: "parsing config",
		},
		{
			name: "one team",
			yaml: "teams:\n  - {name: Hammers, wins: 1, points: 100.00}\n",
			want: "at least two teams",
		},
		{
			name: "missing name",
			yaml: "teams:\n  - {name: Hammers, wins: 1, points: 100.00}\n  - {wins: 2, points: 90.00}\n",
			want: "needs a name",
		},
		{
			name: "negative wins",
			yaml: "teams:\n  - {name: Hammers, wins: -1, points: 100.00}\n  - {name: Rovers, wins: 2, points: 90.00}\n",
			want: "wins cannot be negative",
		},
		{
			name: "half a matchup",
			yaml: "teams:\n  - {name: Hammers, wins: 1, points: 100.00}\n  - {name: Rovers, wins: 2, points: 90.00}\nmatchups:\n  - {home: Hammers}\n",
			want: "both home and away",
		},
		{
			name: "inverted score bounds",
			yaml: "teams:\n  - {name: Hammers, wins: 1, points: 100.00}\n  - {name: Rovers, wins: 2, points: 90.00}\nscores: {min: 200.00, max: 50.00}\n",
			want: "must be below",
		},
		{
			name: "negative query budget",
			yaml: "teams:\n  - {name: Hammers, wins: 1, points: 100.00}\n  - {name: Rovers, wins: 2, points: 90.00}\nsolver: {max_queries: -5}\n",
			want: "max_queries",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q, want it to mention %q", err, tc.want)
			}
		})
	}
}

func TestParsePoints(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1464.26", want: 146426},
		{in: "50", want: 5000},
		{in: "0.5", want: 50},
		{in: "0.05", want: 5},
		{in: "-12.34", want: -1234},
		{in: " 100.00 ", want: 10000},
		{in: "1.234", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "12.-5", wantErr: true},
		{in: "12.+5", wantErr: true},
		{in: "+5.00", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePoints(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParsePoints(%q) = %d, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePoints(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParsePoints(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatPoints(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{146426, "1464.26"},
		{5000, "50.00"},
		{5, "0.05"},
		{-1234, "-12.34"},
		{0, "0.00"},
	}
	for _, tc := range cases {
		if got := FormatPoints(tc.in); got != tc.want {
			t.Errorf("FormatPoints(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
