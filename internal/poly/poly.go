// Package poly implements a normalized multivariate integer polynomial
// representation used by the optimizer's expression-folding pass. A
// Polynomial is a sum of monomials, each a coefficient times a product of
// variables raised to non-negative integer powers; it is kept in a
// canonical form (no zero-coefficient monomial is ever stored) so that two
// algebraically equal polynomials compare equal with Equal or
// reflect.DeepEqual.
package poly

import (
	"fmt"
	"sort"
	"strings"
)

// Monomial is a product of variables with non-negative integer exponents,
// e.g. x^2*y is represented as {"x": 2, "y": 1}. The empty Monomial is the
// constant term 1.
type Monomial map[string]int

// key returns a string uniquely identifying this monomial's variable/exponent
// multiset, independent of map iteration order, suitable as a Go map key.
func (m Monomial) key() string {
	if len(m) == 0 {
		return ""
	}
	names := make([]string, 0, len(m))
	for v := range m {
		names = append(names, v)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, v := range names {
		fmt.Fprintf(&b, "%s^%d*", v, m[v])
	}
	return b.String()
}

func (m Monomial) clone() Monomial {
	out := make(Monomial, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m Monomial) mul(other Monomial) Monomial {
	out := m.clone()
	for v, e := range other {
		out[v] += e
	}
	return out
}

// Polynomial is a canonical sum of monomials: terms maps a monomial's key to
// its (monomial, coefficient) pair. A key is present only when its
// coefficient is non-zero — Const stores no term for 0, and addTerm
// (through which Add and Mul combine terms) drops any term whose
// coefficient cancels to zero.
type Polynomial struct {
	terms map[string]term
}

type term struct {
	mono Monomial
	coef int64
}

// Zero is the polynomial with no terms.
func Zero() Polynomial {
	return Polynomial{terms: map[string]term{}}
}

// Const builds a constant polynomial.
func Const(c int64) Polynomial {
	p := Zero()
	if c != 0 {
		p.terms[Monomial{}.key()] = term{mono: Monomial{}, coef: c}
	}
	return p
}

// Var builds the degree-1 polynomial naming a single variable.
func Var(name string) Polynomial {
	m := Monomial{name: 1}
	return Polynomial{terms: map[string]term{m.key(): {mono: m, coef: 1}}}
}

// IsConstant reports whether p has degree 0 (no variables in any surviving
// term).
func (p Polynomial) IsConstant() bool {
	for _, t := range p.terms {
		if len(t.mono) != 0 {
			return false
		}
	}
	return true
}

// ConstValue returns p's constant value and true if IsConstant; otherwise
// (0, false).
func (p Polynomial) ConstValue() (int64, bool) {
	if !p.IsConstant() {
		return 0, false
	}
	for _, t := range p.terms {
		return t.coef, true
	}
	return 0, true
}

// clone deep-copies p so that Add/Sub/etc never mutate a receiver in place.
func (p Polynomial) clone() Polynomial {
	out := Zero()
	for k, t := range p.terms {
		out.terms[k] = term{mono: t.mono.clone(), coef: t.coef}
	}
	return out
}

func (p Polynomial) addTerm(t term) Polynomial {
	out := p.clone()
	key := t.mono.key()
	existing, ok := out.terms[key]
	coef := t.coef
	if ok {
		coef += existing.coef
	}
	if coef == 0 {
		delete(out.terms, key)
	} else {
		out.terms[key] = term{mono: t.mono, coef: coef}
	}
	return out
}

// Add returns p + q.
func Add(p, q Polynomial) Polynomial {
	out := p.clone()
	for _, t := range q.terms {
		out = out.addTerm(t)
	}
	return out
}

// Neg returns -p.
func Neg(p Polynomial) Polynomial {
	out := Zero()
	for k, t := range p.terms {
		out.terms[k] = term{mono: t.mono, coef: -t.coef}
	}
	return out
}

// Sub returns p - q.
func Sub(p, q Polynomial) Polynomial {
	return Add(p, Neg(q))
}

// Mul returns p * q, distributing every term of p over every term of q.
func Mul(p, q Polynomial) Polynomial {
	out := Zero()
	for _, tp := range p.terms {
		for _, tq := range q.terms {
			out = out.addTerm(term{
				mono: tp.mono.mul(tq.mono),
				coef: tp.coef * tq.coef,
			})
		}
	}
	return out
}

// Substitute replaces every occurrence of a variable named in subs with its
// replacement polynomial, expanding the result algebraically and
// re-normalizing. Variables not named in subs are left alone. Used by the
// optimizer's copy-propagation pass to redirect a folded polynomial's
// reference from one SSA definition's key to another's without losing
// canonical form.
func Substitute(p Polynomial, subs map[string]Polynomial) Polynomial {
	out := Zero()
	for _, t := range p.terms {
		factor := Const(t.coef)
		for v, e := range t.mono {
			replacement, ok := subs[v]
			if !ok {
				replacement = Var(v)
			}
			for i := 0; i < e; i++ {
				factor = Mul(factor, replacement)
			}
		}
		out = Add(out, factor)
	}
	return out
}

// Equal reports whether p and q are the same canonical polynomial. Because
// both operands are always kept in canonical form (zero-coefficient terms
// pruned), structural equality of the term maps is sufficient.
func Equal(p, q Polynomial) bool {
	if len(p.terms) != len(q.terms) {
		return false
	}
	for k, t := range p.terms {
		o, ok := q.terms[k]
		if !ok || o.coef != t.coef {
			return false
		}
	}
	return true
}

// String renders p as a sum of monomials in a stable (sorted) order, for
// diagnostics and tests. The zero polynomial renders as "0".
func (p Polynomial) String() string {
	if len(p.terms) == 0 {
		return "0"
	}
	keys := make([]string, 0, len(p.terms))
	for k := range p.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		t := p.terms[k]
		parts = append(parts, monomialString(t))
	}
	return strings.Join(parts, " + ")
}

func monomialString(t term) string {
	if len(t.mono) == 0 {
		return fmt.Sprintf("%d", t.coef)
	}
	names := make([]string, 0, len(t.mono))
	for v := range t.mono {
		names = append(names, v)
	}
	sort.Strings(names)

	var factors []string
	for _, v := range names {
		e := t.mono[v]
		if e == 1 {
			factors = append(factors, v)
		} else {
			factors = append(factors, fmt.Sprintf("%s^%d", v, e))
		}
	}
	if t.coef == 1 {
		return strings.Join(factors, "*")
	}
	return fmt.Sprintf("%d*%s", t.coef, strings.Join(factors, "*"))
}
