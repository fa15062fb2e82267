package lex

// Symbol is an opaque handle to an interned string.
type Symbol uint32

// Interner deduplicates strings, handing out a stable Symbol per distinct
// string.
type Interner struct {
	lookup map[string]Symbol
	pool   []string
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{lookup: map[string]Symbol{}}
}

// Intern returns the symbol for s, adding it to the pool when first seen.
func (i *Interner) Intern(s string) Symbol {
	if sym, ok := i.lookup[s]; ok {
		return sym
	}
	sym := Symbol(len(i.pool))
	i.pool = append(i.pool, s)
	i.lookup[s] = sym
	return sym
}

// Resolve returns the string for sym, panicking when sym was not produced by
// this interner.
func (i *Interner) Resolve(sym Symbol) string {
	return i.pool[sym]
}
