package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads palette overrides from YAML and merges them over the
// built-in set. Top-level keys are emotion labels, values map variable names
// to values. New emotions start from the neutral palette.
//
//	joy:
//	  --primary-accent: "#FFC300"
func LoadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw map[string]map[string]string
	if err := yaml.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	return Merge(Default(), raw), nil
}

func Merge(base Set, overrides map[string]map[string]string) Set {
	for emo, vars := range overrides {
		p, ok := base[emo]
		if !ok {
			p = base.Lookup(Neutral).clone()
			p.Emotion = emo
		}
		for k, v := range vars {
			p.Vars[k] = v
		}
		base[emo] = p
	}
	return base
}
