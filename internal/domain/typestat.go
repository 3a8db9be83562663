package domain

// NoExtensionLabel buckets files without an extension.
const NoExtensionLabel = "no-extension"

type TypeStat struct {
	Extension  string
	Count      int
	Percentage float64
}

// TypeReport is the extension breakdown of a directory, sorted by
// descending count.
type TypeReport struct {
	Directory string
	Total     int
	Stats     []TypeStat
}
