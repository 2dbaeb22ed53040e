package batch

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"bgclear/transparency"
)

var (
	ErrUnknownProfile  = errors.New("batch: unknown profile")
	ErrInvalidManifest = errors.New("batch: invalid manifest")
)

// Profile is a compiled-in batch: a policy chain, the colour mode and a
// fixed file list.
type Profile struct {
	Name         string
	Policies     []string
	ReplaceColor bool
	Files        []string
}

// Built-in profile names.
const (
	ProfileFixIcons        = "fix-icons"
	ProfileMakeTransparent = "make-transparent"
)

var profiles = map[string]Profile{
	ProfileFixIcons: {
		Name: ProfileFixIcons,
		Policies: []string{
			transparency.PolicyGrayRange,
			transparency.PolicyBrightWhite,
			transparency.PolicyLightGray,
		},
		Files: []string{
			"SimWeb/wwwroot/images/ostrich.png",
			"SimWeb/wwwroot/images/eagle.png",
			"SimWeb/wwwroot/images/rabbit.png",
		},
	},
	ProfileMakeTransparent: {
		Name:         ProfileMakeTransparent,
		Policies:     []string{transparency.PolicyLightWhite},
		ReplaceColor: true,
		Files: []string{
			"SimWeb/wwwroot/images/elf.png",
			"SimWeb/wwwroot/images/orc.png",
			"SimWeb/wwwroot/images/bird.png",
			"SimWeb/wwwroot/images/rabbit.png",
			"SimWeb/wwwroot/images/elf_transparent.png",
			"SimWeb/wwwroot/images/orc_transparent.png",
			"SimWeb/wwwroot/images/carrot.png",
		},
	},
}

// LookupProfile returns the built-in profile called name.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[strings.TrimSpace(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProfile, name, strings.Join(ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames lists built-in profiles in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plan is a resolved batch ready to hand to a Runner.
type Plan struct {
	Name         string
	Chain        transparency.Chain
	ReplaceColor bool
	Jobs         []Job
}

// Options returns Runner options for the plan.
func (p Plan) Options(baseDir string) Options {
	return Options{Chain: p.Chain, ReplaceColor: p.ReplaceColor, BaseDir: baseDir}
}

// Plan resolves the profile's policies against the built-in registry.
func (p Profile) Plan() (Plan, error) {
	chain, err := transparency.NewRegistry().ParseChain(p.Policies)
	if err != nil {
		return Plan{}, fmt.Errorf("profile %s: %w", p.Name, err)
	}
	jobs := make([]Job, len(p.Files))
	for i, f := range p.Files {
		jobs[i] = Job{Path: f}
	}
	return Plan{Name: p.Name, Chain: chain, ReplaceColor: p.ReplaceColor, Jobs: jobs}, nil
}
