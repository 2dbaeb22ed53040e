package transparency

import (
	"fmt"
	"sort"
	"strings"
)

// Predicate reports whether an RGB triple is considered background.
type Predicate func(r, g, b uint8) bool

// Threshold is a background test over all three channels.
//
// A pixel matches when every channel is strictly greater than Low and, if
// High is non-zero, strictly less than High. When MaxSpread is positive the
// channels must also be close to each other: |R-G| < MaxSpread and
// |G-B| < MaxSpread.
type Threshold struct {
	Low       int `yaml:"low"`
	High      int `yaml:"high"`
	MaxSpread int `yaml:"max_spread"`
}

// Match applies the threshold to one pixel.
func (t Threshold) Match(r, g, b uint8) bool {
	if !t.inRange(r) || !t.inRange(g) || !t.inRange(b) {
		return false
	}
	if t.MaxSpread > 0 {
		return absDiff(r, g) < t.MaxSpread && absDiff(g, b) < t.MaxSpread
	}
	return true
}

func (t Threshold) inRange(c uint8) bool {
	v := int(c)
	if v <= t.Low {
		return false
	}
	return t.High == 0 || v < t.High
}

// Validate rejects thresholds that can never match or are out of the 8-bit range.
func (t Threshold) Validate() error {
	switch {
	case t.Low < 0 || t.Low > 254:
		return fmt.Errorf("%w: low=%d must be in [0,254]", ErrInvalidBounds, t.Low)
	case t.High < 0 || t.High > 256:
		return fmt.Errorf("%w: high=%d must be in [0,256]", ErrInvalidBounds, t.High)
	case t.High != 0 && t.High <= t.Low+1:
		return fmt.Errorf("%w: low=%d high=%d leaves no matching value", ErrInvalidBounds, t.Low, t.High)
	case t.MaxSpread < 0:
		return fmt.Errorf("%w: max_spread=%d must not be negative", ErrInvalidBounds, t.MaxSpread)
	}
	return nil
}

func (t Threshold) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, ">%d", t.Low)
	if t.High != 0 {
		fmt.Fprintf(&sb, " <%d", t.High)
	}
	if t.MaxSpread > 0 {
		fmt.Fprintf(&sb, " spread<%d", t.MaxSpread)
	}
	return sb.String()
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Policy is a named background threshold.
type Policy struct {
	Name      string
	Threshold Threshold
}

// Built-in policy names.
const (
	PolicyGrayRange         = "gray-range"
	PolicyBrightWhite       = "bright-white"
	PolicyBrightWhiteStrict = "bright-white-strict"
	PolicyLightGray         = "light-gray"
	PolicyLightWhite        = "light-white"
)

// Overlapping thresholds are kept as separate entries.
var builtinPolicies = []Policy{
	{Name: PolicyGrayRange, Threshold: Threshold{Low: 120, High: 150}},
	{Name: PolicyBrightWhite, Threshold: Threshold{Low: 240}},
	{Name: PolicyBrightWhiteStrict, Threshold: Threshold{Low: 245}},
	{Name: PolicyLightGray, Threshold: Threshold{Low: 200, MaxSpread: 10}},
	{Name: PolicyLightWhite, Threshold: Threshold{Low: 180}},
}

// Registry resolves policy names. The zero value is not usable; use NewRegistry.
type Registry struct {
	policies map[string]Policy
}

// NewRegistry returns a registry preloaded with the built-in policies.
func NewRegistry() *Registry {
	r := &Registry{policies: make(map[string]Policy, len(builtinPolicies))}
	for _, p := range builtinPolicies {
		r.policies[p.Name] = p
	}
	return r
}

// Register adds a custom policy. Names must be unique, including against built-ins.
func (r *Registry) Register(p Policy) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownPolicy)
	}
	if _, exists := r.policies[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePolicy, name)
	}
	if err := p.Threshold.Validate(); err != nil {
		return fmt.Errorf("policy %s: %w", name, err)
	}
	p.Name = name
	r.policies[name] = p
	return nil
}

// Lookup returns the policy registered under name.
func (r *Registry) Lookup(name string) (Policy, error) {
	p, ok := r.policies[strings.TrimSpace(name)]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPolicy, name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

// Names returns the registered policy names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseChain resolves names into a chain, keeping their order.
func (r *Registry) ParseChain(names []string) (Chain, error) {
	if len(names) == 0 {
		return nil, ErrEmptyChain
	}
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		p, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, p)
	}
	return chain, nil
}

// LookupPolicy resolves a built-in policy name.
func LookupPolicy(name string) (Policy, error) {
	return NewRegistry().Lookup(name)
}

// ParseChain resolves built-in policy names into a chain.
func ParseChain(names []string) (Chain, error) {
	return NewRegistry().ParseChain(names)
}

// PolicyNames lists the built-in policy names.
func PolicyNames() []string {
	return NewRegistry().Names()
}

// Chain is an ordered OR of policies; the first match wins.
type Chain []Policy

// Classify returns the name of the first policy matching the pixel.
func (c Chain) Classify(r, g, b uint8) (string, bool) {
	for _, p := range c {
		if p.Threshold.Match(r, g, b) {
			return p.Name, true
		}
	}
	return "", false
}

// Match reports whether any policy in the chain matches.
func (c Chain) Match(r, g, b uint8) bool {
	_, ok := c.Classify(r, g, b)
	return ok
}

// Predicate returns the chain as a plain Predicate.
func (c Chain) Predicate() Predicate {
	return c.Match
}

// Names returns the policy names in chain order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name
	}
	return names
}
