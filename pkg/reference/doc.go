// Package reference fetches the country and city lists behind country and city
// questions, and guards late responses so a city list fetched for a country
// that is no longer selected is discarded.
package reference
