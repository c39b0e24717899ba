package featureconfig

import (
	"fmt"
	"io"
	"text/template"
)

// templates holds the header and translation-unit templates. Whitespace is
// significant: the output is compared byte for byte by build systems.
var templates = template.Must(template.New("").Parse(
	bannerTmpl +
		headerTmpl +
		sourceTmpl,
))

// renderTemplate executes a named template into w.
func renderTemplate(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}
	return nil
}

const bannerTmpl = `{{define "banner"}}/*
 * WARNING: This file was generated automatically.
 * Do not modify it or your changes will be overwritten!
 * Modify {{.Options.SourceName}} instead.
 */
{{end}}`

const headerTmpl = `{{define "header"}}{{template "banner" .}}
#ifndef {{.Options.IncludeGuard}}
#define {{.Options.IncludeGuard}}

/*********************************/
/* Handle definitions from CMake */
/*********************************/

#include "{{.Options.BuildConfigHeader}}"

// rename external features
{{range .Externals}}
#if defined({{$.Options.BuildPrefix}}{{.}})
#undef {{$.Options.BuildPrefix}}{{.}}
#define {{.}}
#endif
{{end}}
/************************************/
/* Handle definitions from MyConfig */
/************************************/

#include "{{.Options.MyConfigHeader}}"

/***********************/
/* Handle implications */
/***********************/
{{range .Implications}}
// {{.Feature}} implies {{.Implied}}
#if defined({{.Feature}}) && !defined({{.Implied}})
#define {{.Implied}}
#endif
{{end}}
/*****************************************************/
/* Warn when derived switches are specified manually */
/*****************************************************/
{{range .Derivations}}
// {{.Feature}} equals {{.Expr}}
#ifdef {{.Feature}}
#warning {{.Feature}} is a derived switch and should not be set manually!
#elif {{.CPPExpr}}
#define {{.Feature}}
#endif
{{end}}

extern char const *const FEATURES[];
extern char const *const FEATURES_ALL[];
extern unsigned int const NUM_FEATURES;
extern unsigned int const NUM_FEATURES_ALL;

#endif
{{end}}`

const sourceTmpl = `{{define "source"}}{{template "banner" .}}
#include "{{.Options.FeaturesHeader}}"
#include "{{.Options.ConfigHeader}}"

/***********************/
/* Handle requirements */
/***********************/
{{range .Requirements}}
// {{.Feature}} requires {{.Expr}}
#if defined({{.Feature}}) && !({{.CPPExpr}})
#error Feature {{.Feature}} requires {{.Expr}}
#endif
{{end}}
/****************/
/* Feature list */
/****************/

char const *const FEATURES[] = {
{{range .Features}}
#ifdef {{.}}
  "{{.}}",
#endif
{{end}}
};
unsigned int const NUM_FEATURES = sizeof(FEATURES) / sizeof(char*);

/*********************/
/* Feature full list */
/*********************/

char const *const FEATURES_ALL[] = {
{{- range .AllFeatures}}
  "{{.}}",
{{- end}}
};
unsigned int const NUM_FEATURES_ALL = sizeof(FEATURES_ALL) / sizeof(char*);
{{end}}`
