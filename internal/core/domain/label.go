package domain

import "strings"

// AnonymousLabel replaces labels that cannot be used as a directory name.
// Every anonymous run shares its persisted history with every other one.
const AnonymousLabel = "anonymous"

// illegalLabelChars are rejected on at least one supported filesystem.
const illegalLabelChars = "/\\:<>\"|?*\x00"

// ValidateLabel reports whether label can name a result directory.
//
// A label is rejected when it is empty, contains a path separator or a
// filesystem-illegal character, contains an ASCII control character, or ends
// in a dot or a space.
func ValidateLabel(label string) error {
	if label == "" {
		return ErrInvalidLabel.WithDetails("label is empty")
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if c < 0x20 || c == 0x7f {
			return ErrInvalidLabel.Detailf("label %q contains control character 0x%02x", label, c)
		}
		if strings.IndexByte(illegalLabelChars, c) >= 0 {
			return ErrInvalidLabel.Detailf("label %q contains illegal character %q", label, c)
		}
	}
	switch label[len(label)-1] {
	case '.', ' ':
		return ErrInvalidLabel.Detailf("label %q ends in a dot or space", label)
	}
	return nil
}

// ResolveLabel returns label unchanged when it is valid. Otherwise it returns
// AnonymousLabel together with the validation error, which callers log.
func ResolveLabel(label string) (string, error) {
	if err := ValidateLabel(label); err != nil {
		return AnonymousLabel, err
	}
	return label, nil
}
