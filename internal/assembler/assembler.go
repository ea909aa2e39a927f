// Package assembler turns retrieval results into a bounded context block.
package assembler

import "localbrain/internal/domain"

// DefaultSeparator joins chunk texts in the assembled context.
const DefaultSeparator = "\n\n"

// Assemble concatenates result texts in input order, joined by sep.
// When the joined string would exceed maxChars it drops the
// lowest-ranked (trailing) results first; a chunk is never split. It
// returns the assembled string and the results actually included, in
// order. Empty input or a non-positive budget yields an empty context.
func Assemble(results []domain.RetrievalResult, sep string, maxChars int) (string, []domain.RetrievalResult) {
	if len(results) == 0 || maxChars <= 0 {
		return "", nil
	}
	var (
		out  []byte
		used []domain.RetrievalResult
	)
	total := 0
	for _, res := range results {
		add := len(res.Text)
		if len(used) > 0 {
			add += len(sep)
		}
		if total+add > maxChars {
			break
		}
		if len(used) > 0 {
			out = append(out, sep...)
		}
		out = append(out, res.Text...)
		total += add
		used = append(used, res)
	}
	return string(out), used
}
