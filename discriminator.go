package extract

// Discriminator is a cheap predicate over a payload View, used by When to
// decide whether a unit should see a request at all.
type Discriminator interface {
	Match(v View) bool
}

// MatchFunc adapts a plain function to a Discriminator.
type MatchFunc func(v View) bool

// Match implements Discriminator.
func (f MatchFunc) Match(v View) bool { return f(v) }

// HasFields matches when every path exists.
func HasFields(paths ...string) Discriminator {
	return MatchFunc(func(v View) bool {
		for _, p := range paths {
			if !v.HasField(p) {
				return false
			}
		}
		return true
	})
}

// FieldEquals matches when path holds the string value.
func FieldEquals(path, value string) Discriminator {
	return MatchFunc(func(v View) bool {
		s, ok := v.GetString(path)
		return ok && s == value
	})
}

// And matches when all of ds match. No discriminators match everything.
func And(ds ...Discriminator) Discriminator {
	return MatchFunc(func(v View) bool {
		for _, d := range ds {
			if !d.Match(v) {
				return false
			}
		}
		return true
	})
}

// Or matches when any of ds matches.
func Or(ds ...Discriminator) Discriminator {
	return MatchFunc(func(v View) bool {
		for _, d := range ds {
			if d.Match(v) {
				return true
			}
		}
		return false
	})
}

// Not inverts d.
func Not(d Discriminator) Discriminator {
	return MatchFunc(func(v View) bool { return !d.Match(v) })
}
