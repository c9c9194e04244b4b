package rank

import "fmt"

var fruits = []struct {
	name   string
	radius float64
}{
	{"cherry", 33},
	{"strawberry", 48},
	{"grape", 61},
	{"gyool", 69},
	{"orange", 89},
	{"apple", 114},
	{"pear", 129},
	{"peach", 156},
	{"pineapple", 177},
	{"melon", 220},
	{"watermelon", 259},
}

// DefaultDescriptors returns the built-in fruit progression.
// Points follow the triangular numbers 1, 3, 6, 10, ...
func DefaultDescriptors() []Descriptor {
	descs := make([]Descriptor, len(fruits))
	for i, f := range fruits {
		descs[i] = Descriptor{
			Rank:   Rank(i),
			Name:   f.name,
			Radius: f.radius,
			Scale:  1,
			Asset:  assetPath(i, f.name),
			Points: (i + 1) * (i + 2) / 2,
		}
	}
	return descs
}

// Default returns a table built from DefaultDescriptors.
func Default() *Table {
	t, err := NewTable(DefaultDescriptors())
	if err != nil {
		panic(err)
	}
	return t
}

func assetPath(i int, name string) string {
	return fmt.Sprintf("base/%02d_%s.png", i, name)
}
