// Package facets computes faceted-search drill-down links over a
// queryable collection of records.
//
// Given a model of filterable attributes and the query parameters of an
// incoming URL, a FilterSet narrows the collection by every chosen value
// and computes, per filter, which further values remain selectable, with
// result counts and ready-to-encode parameter sets for "add filter",
// "remove filter" and display-only entries. Rendering the choices into
// markup, parsing the request, and executing queries are all left to
// collaborators; this package owns the choice algebra only.
package facets

// PageParam is the reserved pagination parameter key. Every generated
// link strips it, so following a filter link resets to page 1.
const PageParam = "page"
