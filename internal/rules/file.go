package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verilex/verilex/internal/model"
)

// ruleFile is the on-disk YAML layout for rule overrides:
//
//	rule_sets:
//	  service_agreement:
//	    - regulation_id: reg-gdpr
//	      description: GDPR compliance
//	      penalty_severity: high
type ruleFile struct {
	RuleSets map[string][]Requirement `yaml:"rule_sets"`
}

// LoadFile reads a YAML rule file and returns a store built from it. The file
// replaces the built-in sets entirely for the document types it names; types
// it omits fall back to empty rule sets.
func LoadFile(path string) (*StaticStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rule file %s: %w", path, err)
	}

	sets := make(map[model.DocumentType][]Requirement, len(rf.RuleSets))
	for name, reqs := range rf.RuleSets {
		docType := model.DocumentType(name)
		for i, r := range reqs {
			if r.RegulationID == "" {
				return nil, fmt.Errorf("rule file %s: rule %d for %q has no regulation_id", path, i, name)
			}
			if r.PenaltySeverity == "" {
				reqs[i].PenaltySeverity = model.SeverityMedium
			}
		}
		sets[docType] = reqs
	}

	return NewStaticStore(sets), nil
}

// Load returns the store configured by cfg: the YAML file when one is set,
// otherwise the built-in defaults.
func Load(cfg model.RulesConfig) (Store, error) {
	if cfg.File == "" {
		return NewDefaultStore(), nil
	}
	return LoadFile(cfg.File)
}
