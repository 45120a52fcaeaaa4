package assetcache

// TextResource is a trivially loadable resource holding a file's contents as
// text. It doubles as a reference implementation of the Resource contract.
type TextResource struct {
	text string
}

// Load stores the file contents verbatim.
func (r *TextResource) Load(input *LoadContext) error {
	r.text = input.Text()
	return nil
}

// ShouldReloadOnFileChange reports that text resources follow file changes.
func (r *TextResource) ShouldReloadOnFileChange() bool { return true }

// TypeID returns the type tag for text resources.
func (r *TextResource) TypeID() TypeTag { return "TextResource" }

// Text returns the loaded contents.
func (r *TextResource) Text() string { return r.text }
