// Package viz draws face fields in the terminal.
//
// [Shade] reduces a field to one character per block of cells, [Live]
// redraws it while a run progresses and [Inspector] is a bubbletea program
// for stepping a simulation by hand and probing single cells.
package viz
