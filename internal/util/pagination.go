package util

const DefaultPageSize = 20

// Calculate clamps page/size query values and converts them to an offset and
// limit.
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}
