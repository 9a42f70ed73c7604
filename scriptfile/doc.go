// Package scriptfile provides a reference Evaluator for assignment-style
// module files.
//
// It exists so embedders and the command-line tool can exercise file imports
// end to end without bringing a scripting language; the import engine itself
// works with any modscope.Evaluator.
package scriptfile
