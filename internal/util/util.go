package util

// Plural picks the noun form for number.
func Plural(number int, one, many string) string {
	if number == 1 || number == -1 {
		return one
	}
	return many
}
