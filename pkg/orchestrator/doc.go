// Package orchestrator drives a single form-filling session: it seeds the
// answer store from prior answers, applies input events, keeps the visible
// set current, runs validation, and hands valid batches to a transport.
//
// A Session serialises every operation with a mutex so reference-data fetches
// and uploads may complete on other goroutines. Network calls run without the
// lock held; results that arrive after the originating selection changed are
// discarded.
package orchestrator
