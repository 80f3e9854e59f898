package model

// Category is static reference data used to group skills and seed decay rates.
type Category struct {
	ID               string  `json:"id" mapstructure:"id"`
	Name             string  `json:"name" mapstructure:"name"`
	Icon             string  `json:"icon" mapstructure:"icon"`
	DefaultDecayRate float64 `json:"default_decay_rate" mapstructure:"default_decay_rate"`
	Color            string  `json:"color" mapstructure:"color"`
}

// DefaultCategories is the seeded set of seven categories.
var DefaultCategories = []Category{
	{ID: "programming", Name: "Programming", Icon: "💻", DefaultDecayRate: 1.0, Color: "#3b82f6"},
	{ID: "language", Name: "Languages", Icon: "🗣️", DefaultDecayRate: 1.2, Color: "#10b981"},
	{ID: "music", Name: "Music", Icon: "🎵", DefaultDecayRate: 1.1, Color: "#8b5cf6"},
	{ID: "fitness", Name: "Fitness", Icon: "💪", DefaultDecayRate: 1.5, Color: "#ef4444"},
	{ID: "creative", Name: "Creative", Icon: "🎨", DefaultDecayRate: 0.8, Color: "#f59e0b"},
	{ID: "academic", Name: "Academic", Icon: "📚", DefaultDecayRate: 0.9, Color: "#06b6d4"},
	{ID: DefaultCategory, Name: "Other", Icon: "📌", DefaultDecayRate: 1.0, Color: "#6b7280"},
}

// Categories indexes categories by id.
type Categories map[string]Category

// NewCategories builds an index from a list. The "other" category is always present.
func NewCategories(list []Category) Categories {
	c := make(Categories, len(list)+1)
	for _, cat := range list {
		c[cat.ID] = cat
	}
	if _, ok := c[DefaultCategory]; !ok {
		c[DefaultCategory] = DefaultCategories[len(DefaultCategories)-1]
	}
	return c
}

// Resolve returns the category for id, falling back to "other".
func (c Categories) Resolve(id string) Category {
	if cat, ok := c[id]; ok {
		return cat
	}
	if cat, ok := c[DefaultCategory]; ok {
		return cat
	}
	return DefaultCategories[len(DefaultCategories)-1]
}
