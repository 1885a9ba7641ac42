// Package render turns lookup results into text for the terminal and
// for saved files.
//
// The Output type is the scrollback "output area" of the interactive
// shell: an ordered list of tagged lines. Tags decide the color a line is
// printed in (via github.com/pterm/pterm) but never change its text, so
// what is saved to disk is exactly what was shown, minus styling.
package render
