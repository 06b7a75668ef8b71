// Package browser implements the interactive sorting view of vsort.
//
// The bubbletea Update loop is the consuming goroutine of the image engine:
// every thumbnail request is issued from Update, and worker completions arrive
// as messages that Update passes back to the engine. Sinks therefore run on the
// Update goroutine and may touch model state directly.
//
// Views:
//   - grid: every version that passes the category and text filters
//   - folders: asset and scene folders with counts, highlighted when they
//     contain the selected version
//   - detail: the contents of one folder, grouped by category
//   - viewer: the selected version at viewer size
package browser
