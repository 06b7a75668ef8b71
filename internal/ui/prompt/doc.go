// Package prompt asks the user to confirm destructive vsort commands, such as
// removing every cached image with 'vsort cache clear'. [Confirm] runs a small
// bubbletea program on stderr and reports whether the user answered yes.
package prompt
