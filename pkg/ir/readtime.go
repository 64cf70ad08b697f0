package ir

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

// WordCount counts the words in a sequence of blocks.
func WordCount(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		n += countWords(b.PlainText())
	}
	return n
}

// ReadingTime estimates minutes to read blocks, rounding up.
// Any non-empty text takes at least one minute.
func ReadingTime(blocks []Block) int {
	words := WordCount(blocks)
	if words == 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
