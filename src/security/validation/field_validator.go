// backend/src/validation/field_validator.go
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxNameLength          = 100
	MaxDescriptionLength   = 1024
)

// Entity enums as stored; writes outside these sets are rejected at the API
// boundary.
var (
	allowedCurrencies   = map[string]bool{"BRL": true, "EUR": true}
	allowedAccountTypes = map[string]bool{"checking": true, "savings": true, "investment": true, "cash": true}
	allowedTxnTypes     = map[string]bool{"income": true, "expense": true}
	allowedEntityTypes  = map[string]bool{"category": true, "source": true}
	allowedGoalCategories = map[string]bool{
		"travel": true, "house": true, "emergency": true, "car": true, "education": true, "other": true,
	}
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// --- Enum Validators ---

// ValidateCurrency accepts only the two supported currencies.
func ValidateCurrency(s string) error {
	if !allowedCurrencies[s] {
		return fmt.Errorf("%w: currency must be BRL or EUR, got '%s'", ErrValidationFailed, s)
	}
	return nil
}

// ValidateAccountType checks the account type enum.
func ValidateAccountType(s string) error {
	if !allowedAccountTypes[s] {
		return fmt.Errorf("%w: account type '%s' is not one of checking, savings, investment, cash", ErrValidationFailed, s)
	}
	return nil
}

// ValidateTransactionType checks the income/expense enum.
func ValidateTransactionType(s string) error {
	if !allowedTxnTypes[s] {
		return fmt.Errorf("%w: transaction type must be income or expense, got '%s'", ErrValidationFailed, s)
	}
	return nil
}

// ValidateBudgetEntityType checks the budget target enum.
func ValidateBudgetEntityType(s string) error {
	if !allowedEntityTypes[s] {
		return fmt.Errorf("%w: budget entity type must be category or source, got '%s'", ErrValidationFailed, s)
	}
	return nil
}

// ValidateGoalCategory checks the goal category enum.
func ValidateGoalCategory(s string) error {
	if !allowedGoalCategories[s] {
		return fmt.Errorf("%w: goal category '%s' is not recognized", ErrValidationFailed, s)
	}
	return nil
}

// --- Date Validator ---

// ValidateISODateString checks the literal "YYYY-MM-DD" shape without going
// through time.Parse in a shifted zone. It only verifies structure and digit
// ranges; day-of-month overflow is tolerated the way the store tolerates it.
func ValidateISODateString(s, fieldName string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return err
	}
	if len(trimmed) < 10 || trimmed[4] != '-' || trimmed[7] != '-' {
		return fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD)", ErrValidationFailed, fieldName, s)
	}
	for _, idx := range []int{0, 1, 2, 3, 5, 6, 8, 9} {
		if trimmed[idx] < '0' || trimmed[idx] > '9' {
			return fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD)", ErrValidationFailed, fieldName, s)
		}
	}
	month := int(trimmed[5]-'0')*10 + int(trimmed[6]-'0')
	day := int(trimmed[8]-'0')*10 + int(trimmed[9]-'0')
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return fmt.Errorf("%w: %s ('%s') has an out-of-range month or day", ErrValidationFailed, fieldName, s)
	}
	return nil
}

// --- Numeric Validators ---

// ValidateNonNegative rejects negative amounts on fields that are unsigned by
// contract (transaction amounts, budget limits, goal targets).
func ValidateNonNegative(v float64, fieldName string) error {
	if v < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	return nil
}
