// Package geo serves the country and city reference lists used by country and
// city questions. Lists are localized with the lang parameter and can be
// filtered with a search query and limit.
//
// The default data set is embedded under data/. Responses use the shape
// {"data": [{"id", "value", "label"}]} that reference.Client decodes.
package geo
