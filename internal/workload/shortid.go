package workload

// Short ids are six lowercase base-36 characters, encoded
// least-significant digit first. Sequential row numbers therefore map
// to distinct ids without coordination, and ids decode back to row
// numbers for verification.

const (
	shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	shortIDLen      = 6
)

// ShortIDFor encodes a row number as a short id.
func ShortIDFor(id int64) string {
	buf := make([]byte, shortIDLen)
	for i := 0; i < shortIDLen; i++ {
		buf[i] = shortIDAlphabet[id%36]
		id /= 36
	}
	return string(buf)
}

// ParseShortID decodes a short id back to its row number. Characters
// outside the alphabet map to digit zero, mirroring the encoder's
// modular arithmetic rather than rejecting the input.
func ParseShortID(s string) int64 {
	var id int64
	for i := len(s) - 1; i >= 0; i-- {
		id *= 36
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			id += int64(c - 'a')
		case c >= '0' && c <= '9':
			id += int64(c-'0') + 26
		}
	}
	return id
}
