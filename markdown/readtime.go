package markdown

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 250

// ReadTime converts a word count into whole minutes, rounding up. It never
// returns less than one minute.
func ReadTime(words int) int {
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	return max(minutes, 1)
}
