// Package i18n resolves localized schema strings and built-in messages. Every
// lookup follows the same chain: the requested locale as given, its canonical
// BCP 47 form, its base language, then English, then a caller fallback.
package i18n
