// Package i18n loads message bundles and resolves keys along the locale
// fallback chain. Bundle satisfies render.Translator.
package i18n
