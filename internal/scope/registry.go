package scope

// DefaultCategory is used when a request carries an unrecognized context.
const DefaultCategory = "NIMC"

// OutOfScopeMessage is the fixed reply for queries outside every category.
const OutOfScopeMessage = "I can only help with NIMC, FIRS, and FRSC services."

// Category groups the keywords and system preamble for one service domain.
type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Preamble string   `json:"preamble"`
}

// Registry exposes the closed set of supported service categories.
type Registry interface {
	List() []Category
	Find(name string) (Category, bool)
	Resolve(name string) Category
}

// MemoryRegistry implements Registry with a fixed in-memory slice.
type MemoryRegistry struct {
	items       []Category
	defaultName string
}

// NewMemoryRegistry returns a MemoryRegistry preloaded with the supplied
// categories. The default name must refer to one of them.
func NewMemoryRegistry(items []Category, defaultName string) *MemoryRegistry {
	return &MemoryRegistry{
		items:       append([]Category(nil), items...),
		defaultName: defaultName,
	}
}

// List returns the registered categories in registration order.
func (r *MemoryRegistry) List() []Category {
	return append([]Category(nil), r.items...)
}

// Find looks up a category by name.
func (r *MemoryRegistry) Find(name string) (Category, bool) {
	for _, item := range r.items {
		if item.Name == name {
			return item, true
		}
	}
	return Category{}, false
}

// Resolve returns the named category, falling back to the default when the
// name is unrecognized. Downstream components never see a raw context value.
func (r *MemoryRegistry) Resolve(name string) Category {
	if category, ok := r.Find(name); ok {
		return category
	}
	category, _ := r.Find(r.defaultName)
	return category
}

// Seed provides the supported government service domains.
func Seed() []Category {
	return []Category{
		{
			Name:     "NIMC",
			Keywords: []string{"nin", "nimc", "identity"},
			Preamble: "You are a NIMC government service assistant.",
		},
		{
			Name:     "FIRS",
			Keywords: []string{"tax", "vat", "tin"},
			Preamble: "You are a FIRS tax service assistant.",
		},
		{
			Name:     "FRSC",
			Keywords: []string{"driver", "license", "vehicle", "plate", "car"},
			Preamble: "You are a FRSC road safety assistant.",
		},
	}
}
