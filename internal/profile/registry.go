package profile

// #region imports
import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region validation

const weightSumTolerance = 0.01

// Validate checks a profile against the closed factor/evidence enums and
// threshold ranges. A failing profile is rejected at load time; the caller
// falls back to the default profile rather than crashing.
func Validate(p Profile) error {
	if len(p.FactorWeights) == 0 {
		return fmt.Errorf("profile %q: factor_weights must not be empty", p.Name)
	}
	if len(p.EvidenceWeights) == 0 {
		return fmt.Errorf("profile %q: evidence_weights must not be empty", p.Name)
	}

	var sum float32
	for f, w := range p.FactorWeights {
		if !knownFactor(f) {
			return fmt.Errorf("profile %q: unknown ranking factor %q", p.Name, f)
		}
		if w < 0 || w > 1 {
			return fmt.Errorf("profile %q: factor weight %s=%.3f outside [0,1]", p.Name, f, w)
		}
		sum += w
	}
	// Sums below 1.0 attenuate scores and are a valid configuration choice.
	// Sums above 1.0 can push contributions out of range, so they are not.
	if sum > 1.0+weightSumTolerance {
		return fmt.Errorf("profile %q: factor weights sum to %.3f (> 1.0)", p.Name, sum)
	}
	if sum < 1.0-weightSumTolerance {
		log.Printf("[PROFILE] %s: factor weights sum to %.3f, scores will be attenuated", p.Name, sum)
	}

	for e, w := range p.EvidenceWeights {
		if !knownEvidenceType(e) {
			return fmt.Errorf("profile %q: unknown evidence type %q", p.Name, e)
		}
		if w < 0 || w > 1 {
			return fmt.Errorf("profile %q: evidence weight %s=%.3f outside [0,1]", p.Name, e, w)
		}
	}

	if p.SuperficialityPenalty > 0 {
		return fmt.Errorf("profile %q: superficiality_penalty %.3f must not be positive", p.Name, p.SuperficialityPenalty)
	}
	if p.SuperficialThreshold < 0 || p.SuperficialThreshold > 1 {
		return fmt.Errorf("profile %q: superficial_threshold %.3f outside [0,1]", p.Name, p.SuperficialThreshold)
	}
	if p.RegenerationThreshold < 0 || p.RegenerationThreshold > 1 {
		return fmt.Errorf("profile %q: regeneration_threshold %.3f outside [0,1]", p.Name, p.RegenerationThreshold)
	}
	if p.MaxRegenerationAttempts < 0 {
		return fmt.Errorf("profile %q: max_regeneration_attempts must be >= 0", p.Name)
	}
	return nil
}

func knownFactor(f Factor) bool {
	for _, k := range KnownFactors {
		if f == k {
			return true
		}
	}
	return false
}

func knownEvidenceType(e EvidenceType) bool {
	for _, k := range KnownEvidenceTypes {
		if e == k {
			return true
		}
	}
	return false
}

// #endregion

// #region registry

// Registry holds the process-wide profile set. Reload swaps the whole map
// atomically so readers never observe a half-updated profile; profiles are
// never edited in place.
type Registry struct {
	profiles atomic.Pointer[map[string]Profile]
}

// NewRegistry creates a registry seeded with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{}
	builtin := BuiltinProfiles()
	r.profiles.Store(&builtin)
	return r
}

// Get resolves a profile by name. An empty name means the default; unknown
// names fall back to the default profile with a warning, never an error.
func (r *Registry) Get(name string) Profile {
	profiles := *r.profiles.Load()
	if name == "" {
		return profiles[DefaultName]
	}
	if p, ok := profiles[name]; ok {
		return p
	}
	log.Printf("[PROFILE] unknown profile %q, falling back to %q", name, DefaultName)
	return profiles[DefaultName]
}

// Names returns the currently loaded profile names.
func (r *Registry) Names() []string {
	profiles := *r.profiles.Load()
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	return names
}

// #endregion

// #region reload

// profileFile is the YAML document shape for a profile bundle.
type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadFile reads and validates a profile YAML file. Profiles that fail
// validation are skipped with a log entry; the rest load normally.
func LoadFile(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	// Start from the built-ins so the default profile always exists.
	profiles := BuiltinProfiles()
	for _, p := range file.Profiles {
		if err := Validate(p); err != nil {
			log.Printf("[PROFILE] rejected: %v", err)
			continue
		}
		profiles[p.Name] = p
	}
	return profiles, nil
}

// Reload loads a profile file and atomically replaces the registry contents.
// On error the previous set stays active.
func (r *Registry) Reload(path string) error {
	profiles, err := LoadFile(path)
	if err != nil {
		return err
	}
	r.profiles.Store(&profiles)
	log.Printf("[PROFILE] loaded %d profiles from %s", len(profiles), path)
	return nil
}

// #endregion
