package domain

// Category is a kategori; its name doubles as the UKM name.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"nama_kategori"`
}

// CategoryNames returns the names of cs in order.
func CategoryNames(cs []Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}
