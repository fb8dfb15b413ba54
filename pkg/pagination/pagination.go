package pagination

const (
	// DefaultPageSize is the number of catalog items shown per page.
	DefaultPageSize = 12
)

// Page describes a resolved page window over a list of known length.
type Page struct {
	Number     int `json:"page"`
	Size       int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Start      int `json:"-"`
	End        int `json:"-"`
}

// NormalizePage clamps the requested 1-based page number to at least 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages returns ceil(total/size), treating an empty list as zero pages.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Resolve computes the slice bounds for the requested page. Pages past the end
// yield an empty window rather than an error.
func Resolve(total, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = NormalizePage(page)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return Page{
		Number:     page,
		Size:       size,
		TotalItems: total,
		TotalPages: TotalPages(total, size),
		Start:      start,
		End:        end,
	}
}
