package models

// Category names used by the default weight tables.
const (
	CategoryUncategorized = "uncategorized"
	CategoryGroceries     = "groceries"
	CategoryTransport     = "transport"
	CategoryDining        = "dining"
	CategoryEntertainment = "entertainment"
	CategoryShopping      = "shopping"
	CategoryMiscellaneous = "miscellaneous"
)

// ISODate is the layout used for date keys and wire formats.
const ISODate = "2006-01-02"

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
)
