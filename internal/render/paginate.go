package render

import "fmt"

// PageSize is the maximum number of characters of body text per message.
const PageSize = 3072

// Paginate splits body into floor(len/size)+1 chunks of at most size
// characters. When more than one chunk results, each gets a "(Page i/n)"
// line appended. Length is counted in runes so multi-byte characters are
// never split.
func Paginate(body string, size int) []string {
	if size <= 0 {
		size = PageSize
	}
	runes := []rune(body)
	n := len(runes)/size + 1

	pages := make([]string, 0, n)
	for i := 0; i < n; i++ {
		start := size * i
		end := min(size*(i+1), len(runes))
		chunk := string(runes[start:end])
		if n > 1 {
			chunk += fmt.Sprintf("\n(Page %d/%d)", i+1, n)
		}
		pages = append(pages, chunk)
	}
	return pages
}
