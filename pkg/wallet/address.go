package wallet

const (
	shortAddressMaxLen = 10
	shortAddressPrefix = 6
	shortAddressSuffix = 4
)

// FormatAddress returns a short representation of the address for display:
// addresses up to 10 chars are returned as they are, longer ones are
// truncated to their first 6 and last 4 chars joined by an ellipsis.
func FormatAddress(address string) string {
	if len(address) <= shortAddressMaxLen {
		return address
	}
	return address[:shortAddressPrefix] + "..." +
		address[len(address)-shortAddressSuffix:]
}
