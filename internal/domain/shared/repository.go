package shared

// Filter describes list query options shared by repositories
type Filter struct {
	Limit   int
	Offset  int
	OrderBy string
	Desc    bool
}
