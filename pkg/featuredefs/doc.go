// Package featuredefs provides the definition model for compile-time feature
// switches and the parsers that build it.
//
// A definition source names boolean features and the relations between them:
//
//	# comment
//	ELECTROSTATICS
//	P3M          implies ELECTROSTATICS, FFTW
//	P3M          requires FFTW
//	CUDA         external
//	DIPOLES      equals DIPOLAR_P3M or DIPOLAR_DIRECT_SUM
//	OLD_FEATURE  notest
//
// Every line registers its feature in AllFeatures. Lines without a keyword
// declare a plain feature. The keywords are:
//
//   - external: the value comes from a build-system option
//   - implies: defining the feature forces the listed features on
//   - requires: the feature may only be active if the expression holds
//   - equals: the feature is derived and switched on when the expression holds
//   - notest: the feature is excluded from automated feature testing
//
// Expressions combine feature names with and, or, not and parentheses. They
// are kept both in their written form and rendered as preprocessor
// conditions (see [Expr.CPP]).
//
// The same model can be loaded from YAML; see [ParseYAML].
package featuredefs
