package config

// SortMode selects the ordering of the gallery listing
type SortMode string

const (
	SortDate    SortMode = "date"
	SortRatings SortMode = "ratings"
)

// String implements fmt.Stringer
func (s SortMode) String() string {
	return string(s)
}

// IsValid returns true if the sort mode is one the gallery understands
func (s SortMode) IsValid() bool {
	switch s {
	case SortDate, SortRatings:
		return true
	}
	return false
}
