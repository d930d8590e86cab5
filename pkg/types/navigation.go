package types

// NavigationItem is one entry of the console shell. Href is the command
// path that renders the page, e.g. "employees list".
type NavigationItem struct {
	Name      string
	Href      string
	Children  []NavigationItem
	Protected bool
}

func (n NavigationItem) IsVisible(authenticated bool) bool {
	return !n.Protected || authenticated
}

// FilterItems drops the entries the current session may not open. A parent
// left with a single child collapses into that child.
func FilterItems(items []NavigationItem, authenticated bool) []NavigationItem {
	out := make([]NavigationItem, 0, len(items))
	for _, item := range items {
		if !item.IsVisible(authenticated) {
			continue
		}
		if len(item.Children) == 0 {
			out = append(out, item)
			continue
		}
		children := FilterItems(item.Children, authenticated)
		switch len(children) {
		case 0:
		case 1:
			out = append(out, children[0])
		default:
			item.Children = children
			out = append(out, item)
		}
	}
	return out
}
