// Package shell builds argument vectors for external bioinformatics tools and
// runs them as child processes.
package shell

import (
	"strings"
)

// Args is an ordered mapping of command line flags to their values. A flag
// with no values is a boolean flag and flattens to the bare flag token.
// Insertion order is preserved so that generated command lines are
// deterministic.
//
// The zero value is ready to use.
type Args struct {
	keys   []string
	values map[string][]string
}

// Set stores values under flag, replacing any previous values. The flag keeps
// its original position when already present.
func (a *Args) Set(flag string, values ...string) {
	if a.values == nil {
		a.values = map[string][]string{}
	}
	if _, ok := a.values[flag]; !ok {
		a.keys = append(a.keys, flag)
	}
	a.values[flag] = values
}

// Delete removes flag and its values, if present.
func (a *Args) Delete(flag string) {
	if _, ok := a.values[flag]; !ok {
		return
	}
	delete(a.values, flag)
	for i, k := range a.keys {
		if k == flag {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Get returns the values stored under flag.
func (a *Args) Get(flag string) ([]string, bool) {
	v, ok := a.values[flag]
	return v, ok
}

// Len returns the number of flags.
func (a *Args) Len() int { return len(a.keys) }

// Merge returns a new Args holding the union of a and o. On conflicting
// flags, o wins. Flags keep a's order first, followed by flags only in o, in
// o's order.
func (a Args) Merge(o Args) Args {
	var merged Args
	for _, k := range a.keys {
		merged.Set(k, a.values[k]...)
	}
	for _, k := range o.keys {
		merged.Set(k, o.values[k]...)
	}
	return merged
}

// Clone returns a deep copy of a.
func (a Args) Clone() Args {
	return Args{}.Merge(a)
}

// Flatten expands the flags into a flat token sequence: flag, value, value,
// flag, value, ...; boolean flags emit just the flag.
func (a Args) Flatten() []string {
	tokens := make([]string, 0, len(a.keys)*2)
	for _, k := range a.keys {
		tokens = append(tokens, k)
		tokens = append(tokens, a.values[k]...)
	}
	return tokens
}

// ParseArgs parses a whitespace-separated pass-through argument string such
// as "--mate-inner-dist 200 --color" into Args. Tokens starting with '-' open
// a new flag; the tokens that follow become its values. Leading tokens before
// any flag are ignored.
func ParseArgs(s string) Args {
	var args Args
	flag := ""
	values := []string(nil)
	flush := func() {
		if flag != "" {
			args.Set(flag, values...)
		}
		values = nil
	}
	for _, tok := range strings.Fields(s) {
		if strings.HasPrefix(tok, "-") {
			flush()
			flag = tok
			continue
		}
		values = append(values, tok)
	}
	flush()
	return args
}
