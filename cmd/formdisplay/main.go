// Command formdisplay loads a form schema, evaluates and validates answers
// against it, renders it as HTML or terminal text, fills it interactively,
// and submits the answers to the GraphQL API.
//
// Usage:
//
//	# List the questions visible for a set of answers
//	formdisplay visible --form form.yaml --answers answers.json
//
//	# Validate and print the submission batch
//	formdisplay encode --form form.yaml --answers answers.json
//
//	# Fill a form in the terminal and submit it
//	formdisplay fill --form-id f-1 --entity-id e-1 --submit
//
//	# Re-render the HTML preview whenever the form file changes
//	formdisplay render --form form.yaml --out form.html --watch
//
//	# Serve the country/city lists, metrics, and a form preview
//	formdisplay serve --form form.yaml
//
//	# Print the JSON Schema for form files
//	formdisplay schema form > form.schema.json
package main

import (
	"fmt"
	"os"
)

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
