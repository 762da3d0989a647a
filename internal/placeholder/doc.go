// Package placeholder implements the `${var|filter:args}` expression
// language used throughout the configuration: templates are parsed once into
// token sequences and later resolved against a variable snapshot.
//
// Two distinct substitution modes exist. The token mode (Parse/Resolve)
// supports chained filters and keeps `$` followed by any other character
// verbatim. The interpolation mode (Interpolate) supports only `${name}` and
// `${name|default}` and collapses `$x` to `x`, so `$$` escapes a dollar
// sign. The two modes serve different call sites and are deliberately not
// unified.
package placeholder
