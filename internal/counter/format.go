package counter

import "strconv"

// FormatDocument formats a whole-document count: "1 Word" or "{n} Words".
func FormatDocument(count int) string {
	return strconv.Itoa(count) + " " + unit(count)
}

// FormatSelection formats a selection count against the document count,
// e.g. "3 of 10 Words". The unit agrees with the document count, so a
// single selected word in a longer document reads "1 of 5 Words".
func FormatSelection(selected, total int) string {
	return strconv.Itoa(selected) + " of " + strconv.Itoa(total) + " " + unit(total)
}

func unit(n int) string {
	if n == 1 {
		return "Word"
	}
	return "Words"
}
