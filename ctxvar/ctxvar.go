// seehuhn.de/go/colorproc - colour processing on the CPU
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package ctxvar substitutes context variables in strings, for example in
// the file names of LUTs.
//
// Three forms of references are recognised: ${NAME}, $NAME and %NAME%.
package ctxvar

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"seehuhn.de/go/colorproc"
)

// Context holds a set of variables and resolves references to them.
// A Context is safe for concurrent use.
type Context struct {
	mu      sync.Mutex
	vars    map[string]string
	entries []entry // sorted by decreasing name length
	results map[string]result
}

type entry struct {
	name  string
	value string
}

type result struct {
	value string
	used  []string
	err   error
}

// New returns an empty context.
func New() *Context {
	return &Context{
		vars:    make(map[string]string),
		results: make(map[string]result),
	}
}

// Set sets the value of a variable.  Empty names are ignored.
func (c *Context) Set(name, value string) {
	if name == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[name] = value
	c.changed()
}

// Get returns the value of a variable.
func (c *Context) Get(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.vars[name]
	return v, ok
}

// Unset removes a variable.
func (c *Context) Unset(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.vars[name]; ok {
		delete(c.vars, name)
		c.changed()
	}
}

// Clear removes all variables.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.vars)
	c.changed()
}

// Names returns the names of all variables, in sorted order.
func (c *Context) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := maps.Keys(c.vars)
	slices.Sort(names)
	return names
}

// LoadEnviron sets variables from a list of "NAME=value" strings, as
// returned by os.Environ.  Entries without "=" are ignored.
func (c *Context) LoadEnviron(environ []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		c.vars[name] = value
	}
	c.changed()
}

// changed must be called with c.mu held whenever c.vars is modified.
func (c *Context) changed() {
	c.entries = c.entries[:0]
	for name, value := range c.vars {
		c.entries = append(c.entries, entry{name: name, value: value})
	}
	// Longer names first, so that $AB is replaced before $A.
	slices.SortFunc(c.entries, func(a, b entry) int {
		if d := cmp.Compare(len(b.name), len(a.name)); d != 0 {
			return d
		}
		return strings.Compare(a.name, b.name)
	})
	clear(c.results)
}

// Resolve replaces all references to known variables in s.  References
// to unknown variables are left unchanged.  Values may themselves contain
// references, which are resolved in turn.  An error is returned if the
// references form a cycle.
func (c *Context) Resolve(s string) (string, error) {
	v, _, err := c.ResolveUsed(s)
	return v, err
}

// ResolveUsed is like Resolve, but also returns the sorted names of the
// variables which were substituted.
func (c *Context) ResolveUsed(s string) (string, []string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.results[s]; ok {
		return r.value, slices.Clone(r.used), r.err
	}
	r := c.resolve(s)
	c.results[s] = r
	return r.value, slices.Clone(r.used), r.err
}

// ResolveStrict is like Resolve, but fails if the result still contains
// references.
func (c *Context) ResolveStrict(s string) (string, error) {
	v, err := c.Resolve(s)
	if err != nil {
		return "", err
	}
	if ContainsVars(v) {
		return "", &colorproc.Error{
			Kind: colorproc.ErrUnresolvedContextVariable,
			Msg:  "unresolved context variable in " + strconv.Quote(v),
		}
	}
	return v, nil
}

func (c *Context) resolve(s string) result {
	used := make(map[string]bool)
	// Every productive pass removes at least one level of nesting.  A
	// chain without cycles has at most len(vars) levels.
	maxPasses := len(c.entries) + 1
	for pass := 0; ; pass++ {
		changed := false
		for _, e := range c.entries {
			next := replaceRefs(s, e.name, e.value)
			if next != s {
				s = next
				used[e.name] = true
				changed = true
			}
		}
		if !changed {
			break
		}
		if pass >= maxPasses {
			return result{err: &colorproc.Error{
				Kind: colorproc.ErrUnresolvedContextVariable,
				Msg:  "context variables reference each other in a cycle",
			}}
		}
	}
	names := maps.Keys(used)
	slices.Sort(names)
	return result{value: s, used: names}
}

// replaceRefs replaces ${name}, $name and %name% in s by value.
func replaceRefs(s, name, value string) string {
	if !strings.ContainsAny(s, "$%") {
		return s
	}
	s = strings.ReplaceAll(s, "${"+name+"}", value)
	s = strings.ReplaceAll(s, "$"+name, value)
	s = strings.ReplaceAll(s, "%"+name+"%", value)
	return s
}

// ContainsVars reports whether s contains anything that looks like a
// variable reference.
func ContainsVars(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '$':
			if i+1 < len(s) && (s[i+1] == '{' || isNameByte(s[i+1])) {
				return true
			}
		case '%':
			j := strings.IndexByte(s[i+1:], '%')
			if j > 0 && isName(s[i+1:i+1+j]) {
				return true
			}
		}
	}
	return false
}

func isNameByte(b byte) bool {
	return b == '_' || 'A' <= b && b <= 'Z' || 'a' <= b && b <= 'z' || '0' <= b && b <= '9'
}

func isName(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}
