// Package compiler turns template configurations into render trees.
//
// A Compiler resolves a Mold for every element through its Registry and
// caches the compiled tree of each template under the active style
// signature, so the same template compiled for a table row and for a form
// yields two independent trees. Molds are usually CompositeMolds assembled
// from Fragments.
package compiler
