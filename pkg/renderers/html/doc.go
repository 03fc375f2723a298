// Package html renders forms as HTML fragments through pongo2 templates.
//
// In edit mode every visible question becomes an input control named by its
// question id; checkbox inputs use "<id>[]". In read-only mode the answers are
// rendered as text. Country and city questions render a select carrying
// data-reference attributes so a page script can fill the lists from the geo
// endpoints. Header, subheader, and paragraph labels may contain markup,
// which is sanitised with bluemonday before output.
package html
