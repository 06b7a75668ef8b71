package membership

import "github.com/sahilm/fuzzy"

// maxSuggestions caps the names returned by Suggest.
const maxSuggestions = 3

// Suggest returns up to three folder names of type t that fuzzily match name,
// best match first.
func (ix *Index) Suggest(t FolderType, name string) []string {
	names := ix.Folders(t)
	matches := fuzzy.Find(name, names)

	var out []string
	for _, m := range matches {
		out = append(out, names[m.Index])
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
