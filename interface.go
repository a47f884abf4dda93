package mktree

// Build materializes text beneath base and groups the item paths by
// outcome: Created, Existed and Failed.
func Build(base, text string, opts Options) (map[string][]string, error) {
	manifest, err := NewMaterializer(opts).Materialize(base, text)
	if err != nil {
		return nil, err
	}

	out := map[string][]string{
		"Created": nil,
		"Existed": nil,
		"Failed":  nil,
	}
	for _, it := range manifest.Items {
		rel := manifest.Rel(it.Path)
		switch {
		case it.Failed():
			out["Failed"] = append(out["Failed"], rel)
		case it.Existed:
			out["Existed"] = append(out["Existed"], rel)
		default:
			out["Created"] = append(out["Created"], rel)
		}
	}
	return out, nil
}

// Suggest returns the structure text the built-in catalog proposes for a
// description.
func Suggest(description string, enhanced bool) string {
	return NewSelector(nil, enhanced).Suggest(description)
}
