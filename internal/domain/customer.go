package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePhone приводит телефон к каноническому виду "+7XXXXXXXXXX".
// Принимаются 11-значные номера, начинающиеся с 7 или 8; всё остальное
// (скобки, дефисы, пробелы) игнорируется.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) != 11 {
		return "", fmt.Errorf("%w: expected 11 digits, got %d", ErrInvalidPhone, len(d))
	}

	switch d[0] {
	case '8', '7':
		return "+7" + d[1:], nil
	default:
		return "", fmt.Errorf("%w: unsupported country prefix %q", ErrInvalidPhone, d[0])
	}
}

// NewCustomer создает клиента, нормализуя телефон и проверяя границы
func NewCustomer(fullName, phone string, guests int) (Customer, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return Customer{}, err
	}

	if guests < MinGuests || guests > MaxGuests {
		return Customer{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidGuests, guests, MinGuests, MaxGuests)
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" || len(fullName) > MaxFullNameLength {
		return Customer{}, fmt.Errorf("%w: full name must be 1..%d characters", ErrInvalidFullName, MaxFullNameLength)
	}

	return Customer{FullName: fullName, Phone: normalized, Guests: guests}, nil
}
