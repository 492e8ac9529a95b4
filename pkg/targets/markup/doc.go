// Package markup is the HTML render target.
//
// Configure registers molds that turn template elements into HTML nodes:
// labelled wrappers around formatted values, forms with input controls,
// tables whose rows repeat a member template, action links and message
// lists. Element property sets such as htmlWrapper or htmlField add
// classes and attributes, and a Theme adds classes per role from go-theme
// tokens at render time.
package markup
