// Package filter selects arts and attacks with boolean expressions written in
// the expr language.
//
// # Usage
//
//	compiler := filter.NewCompiler(filter.WithCache(64))
//	f, err := compiler.Compile(`Damage >= 100 and hasFlag("AREA")`)
//	if err != nil {
//		return err
//	}
//	attacks, err := f.SelectAttacks(guild.Attacks())
//
// Attack expressions see Name, Title, Art, ArtType, Description, HasBanner,
// Damage, Breath, Blood, Stun, Bleed, Burn, Poison, Wisteria, BleedTurn,
// BurnTurn, PoisonTurn, WisteriaTurn, Flags, Created and Updated, plus the
// hasFlag(name) helper. Art expressions see Name, Type, Description,
// HasBanner, Energy, Life, Breath, Blood, AttackCount, Created and Updated,
// plus hasAttack(name).
//
// The helpers hasText, hasPrefix and hasSuffix compare case-insensitively.
// The contains, startsWith and endsWith operators are case-sensitive.
package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/morkato/morkato-bot/morkato"
)

// Filter is a compiled expression. It is immutable and safe for concurrent use.
type Filter struct {
	expression string
	program    *vm.Program
	custom     map[string]any
}

// Option configures a Compiler
type Option func(*Compiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) Option {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) Option {
	return func(c *Compiler) {
		maps.Copy(c.custom, funcs)
	}
}

// Compiler turns expressions into filters
type Compiler struct {
	helperFuncs map[string]any
	custom      map[string]any
	cache       *lruCache
}

// NewCompiler creates a compiler; without WithCache nothing is cached
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		helperFuncs: make(map[string]any, 16),
		custom:      make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}

	addHelperFunctions(c.helperFuncs)
	maps.Copy(c.helperFuncs, c.custom)
	// typed stubs so misuse of the entity helpers fails at compile time
	c.helperFuncs["hasFlag"] = func(string) bool { return false }
	c.helperFuncs["hasAttack"] = func(string) bool { return false }
	return c
}

// Compile compiles an expression into a filter
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{expression: expression, program: program, custom: c.custom}
	if c.cache != nil {
		c.cache.Put(expression, f)
	}
	return f, nil
}

// Clear removes all cached filters
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Expression returns the original expression
func (f *Filter) Expression() string {
	return f.expression
}

// MatchAttack evaluates the filter against an attack
func (f *Filter) MatchAttack(attack *morkato.Attack) (bool, error) {
	env := attackEnvironment(attack)
	maps.Copy(env, f.custom)
	return f.run(env, "attack "+attack.Name())
}

// MatchArt evaluates the filter against an art
func (f *Filter) MatchArt(art *morkato.Art) (bool, error) {
	env := artEnvironment(art)
	maps.Copy(env, f.custom)
	return f.run(env, "art "+art.Name())
}

// SelectAttacks returns the matching attacks in their original order. The
// first evaluation error aborts the selection.
func (f *Filter) SelectAttacks(attacks []*morkato.Attack) ([]*morkato.Attack, error) {
	var out []*morkato.Attack
	for _, attack := range attacks {
		ok, err := f.MatchAttack(attack)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, attack)
		}
	}
	return out, nil
}

// SelectArts returns the matching arts in their original order
func (f *Filter) SelectArts(arts []*morkato.Art) ([]*morkato.Art, error) {
	var out []*morkato.Art
	for _, art := range arts {
		ok, err := f.MatchArt(art)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, art)
		}
	}
	return out, nil
}

func (f *Filter) run(env map[string]any, subject string) (bool, error) {
	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Subject: subject, Err: err}
	}
	matched, _ := result.(bool)
	return matched, nil
}

func addHelperFunctions(env map[string]any) {
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["hasText"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	env["now"] = time.Now
}

func attackEnvironment(attack *morkato.Attack) map[string]any {
	p := attack.Payload()
	flags := morkato.AttackFlags(p.Flags)
	art := attack.Art()

	env := make(map[string]any, 40)
	addHelperFunctions(env)
	env["hasFlag"] = func(name string) bool {
		flag, ok := morkato.ParseAttackFlag(name)
		return ok && flags.Has(flag)
	}

	env["Name"] = p.Name
	env["Title"] = attack.Title()
	env["Art"] = art.Name()
	env["ArtType"] = string(art.Type())
	env["Description"] = deref(p.Description)
	env["HasBanner"] = p.Banner != nil
	env["Damage"] = p.Damage
	env["Breath"] = p.Breath
	env["Blood"] = p.Blood
	env["Stun"] = p.Stun
	env["Bleed"] = p.Bleed
	env["Burn"] = p.Burn
	env["Poison"] = p.Poison
	env["Wisteria"] = p.Wisteria
	env["BleedTurn"] = p.BleedTurn
	env["BurnTurn"] = p.BurnTurn
	env["PoisonTurn"] = p.PoisonTurn
	env["WisteriaTurn"] = p.WisteriaTurn
	env["Flags"] = p.Flags
	env["Created"] = attack.CreatedAt()
	env["Updated"] = orZero(attack.UpdatedAt())
	return env
}

func artEnvironment(art *morkato.Art) map[string]any {
	p := art.Payload()
	attacks := art.Attacks()

	env := make(map[string]any, 24)
	addHelperFunctions(env)
	env["hasAttack"] = func(name string) bool {
		for _, attack := range attacks {
			if strings.EqualFold(attack.Name(), name) {
				return true
			}
		}
		return false
	}

	env["Name"] = p.Name
	env["Type"] = string(p.Type)
	env["Description"] = deref(p.Description)
	env["HasBanner"] = p.Banner != nil
	env["Energy"] = p.Energy
	env["Life"] = p.Life
	env["Breath"] = p.Breath
	env["Blood"] = p.Blood
	env["AttackCount"] = len(attacks)
	env["Created"] = art.CreatedAt()
	env["Updated"] = orZero(art.UpdatedAt())
	return env
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
