package format

// FormatCPF applies the XXX.XXX.XXX-XX mask progressively as digits are
// typed. Non-digit characters never count toward the eleven digits; input
// beyond eleven digits is truncated.
func FormatCPF(value string) string {
	digits := onlyDigits(value)
	if len(digits) > 11 {
		digits = digits[:11]
	}

	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return digits[:3] + "." + digits[3:]
	case len(digits) <= 9:
		return digits[:3] + "." + digits[3:6] + "." + digits[6:]
	default:
		return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
	}
}

// CPFDigits strips the mask, returning only the digits.
func CPFDigits(value string) string {
	return onlyDigits(value)
}
