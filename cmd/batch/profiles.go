package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/daily-budget/cmd/redistribute"

	"gopkg.in/yaml.v3"
)

// Profile is one entry of the profiles file.
type Profile struct {
	ID               string `yaml:"id"`
	Month            string `yaml:"month"`
	Start            string `yaml:"start,omitempty"`
	End              string `yaml:"end,omitempty"`
	Income           string `yaml:"income"`
	FixedCommitments string `yaml:"fixed_commitments,omitempty"`
	SavingsTarget    string `yaml:"savings_target,omitempty"`
	Currency         string `yaml:"currency,omitempty"`
	Locality         string `yaml:"locality,omitempty"`
	AsOf             string `yaml:"as_of,omitempty"`
	Mode             string `yaml:"mode,omitempty"`
	// Transactions is resolved against the profiles file's directory.
	Transactions string `yaml:"transactions,omitempty"`
	Freeze       bool   `yaml:"freeze,omitempty"`
}

// ProfilesFile is the document read by the batch command.
type ProfilesFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles reads and checks a profiles file. Relative transaction paths
// are made relative to the file.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path chosen by the user
	if err != nil {
		return nil, fmt.Errorf("error reading profiles file: %w", err)
	}

	var doc ProfilesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing profiles file: %w", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, fmt.Errorf("no profiles in %s", path)
	}

	seen := make(map[string]bool, len(doc.Profiles))
	base := filepath.Dir(path)
	for i := range doc.Profiles {
		p := &doc.Profiles[i]
		if p.ID == "" {
			return nil, fmt.Errorf("profile %d has no id", i+1)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Transactions != "" && !filepath.IsAbs(p.Transactions) {
			p.Transactions = filepath.Join(base, p.Transactions)
		}
	}
	return doc.Profiles, nil
}

func (p Profile) options(defaultCurrency string) redistribute.Options {
	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return redistribute.Options{
		Profile:  p.ID,
		Income:   p.Income,
		Fixed:    p.FixedCommitments,
		Savings:  p.SavingsTarget,
		Month:    p.Month,
		Start:    p.Start,
		End:      p.End,
		AsOf:     p.AsOf,
		Currency: currency,
		Locality: p.Locality,
		Mode:     p.Mode,
		Freeze:   p.Freeze,
	}
}
