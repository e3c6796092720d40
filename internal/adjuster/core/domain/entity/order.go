package entity

// Property is a single key/value pair attached to a line item by the
// storefront. Keys are not guaranteed unique; lookups are first-match-wins.
type Property struct {
	Name  string
	Value string
}

// LineItem is one ordered line of a Shopify order.
type LineItem struct {
	ID         int64
	Title      string
	Quantity   int
	Properties []Property
}

// Order holds the subset of the Shopify order we need: its line items.
type Order struct {
	ID        int64
	Name      string
	LineItems []LineItem
}

// Property returns the value of the first property with the given name.
// The bool reports whether the property was present at all.
func (li LineItem) Property(name string) (string, bool) {
	for _, p := range li.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
