// Package featureconfig generates the preprocessor artifacts that enforce a
// feature definition model at compile time.
//
// Generation is split in two steps. [NewPlan] turns a
// [featuredefs.Defs] into a [Plan]: every collection sorted and
// deduplicated, implications expanded to their transitive closure, and
// implication cycles detected. [WriteHeader] and [WriteSource] then format
// the plan. Both are pure functions of the plan, so identical definitions
// always produce byte-identical files.
//
// The header processes relations in a fixed textual order:
//
//  1. rename ESPRESSO_BUILD_WITH_<name> build options to <name>
//  2. include the user configuration header
//  3. propagate implications
//  4. define derived features, warning when one was set manually
//
// The translation unit turns unmet requirements into #error directives and
// defines the runtime feature lists. The generator never evaluates the
// expressions it emits; that is left to the compiler.
package featureconfig
