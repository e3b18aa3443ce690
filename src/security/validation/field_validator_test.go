package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStringNotEmpty(t *testing.T) {
	assert.NoError(t, ValidateStringNotEmpty("ok", "Field"))
	assert.ErrorIs(t, ValidateStringNotEmpty("", "Field"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateStringNotEmpty("   ", "Field"), ErrValidationFailed)
}

func TestValidateStringMaxLength(t *testing.T) {
	assert.NoError(t, ValidateStringMaxLength("curto", 10, "Field"))
	assert.ErrorIs(t, ValidateStringMaxLength(strings.Repeat("a", 11), 10, "Field"), ErrValidationFailed)
	// Conta runes, não bytes.
	assert.NoError(t, ValidateStringMaxLength("ação", 4, "Field"))
}

func TestEnumValidators(t *testing.T) {
	assert.NoError(t, ValidateCurrency("BRL"))
	assert.NoError(t, ValidateCurrency("EUR"))
	assert.ErrorIs(t, ValidateCurrency("USD"), ErrValidationFailed)
	assert.ErrorIs(t, ValidateCurrency("brl"), ErrValidationFailed)

	assert.NoError(t, ValidateAccountType("investment"))
	assert.ErrorIs(t, ValidateAccountType("brokerage"), ErrValidationFailed)

	assert.NoError(t, ValidateTransactionType("income"))
	assert.NoError(t, ValidateTransactionType("expense"))
	assert.ErrorIs(t, ValidateTransactionType("transfer"), ErrValidationFailed)

	assert.NoError(t, ValidateBudgetEntityType("category"))
	assert.NoError(t, ValidateBudgetEntityType("source"))
	assert.ErrorIs(t, ValidateBudgetEntityType("account"), ErrValidationFailed)

	assert.NoError(t, ValidateGoalCategory("emergency"))
	assert.ErrorIs(t, ValidateGoalCategory("yacht"), ErrValidationFailed)
}

func TestValidateISODateString(t *testing.T) {
	valid := []string{"2024-03-01", "1999-12-31", " 2024-01-05 "}
	for _, s := range valid {
		assert.NoError(t, ValidateISODateString(s, "Date"), s)
	}

	invalid := []string{"", "2024-3-1", "01-03-2024", "2024/03/01", "2024-13-01", "2024-00-10", "2024-01-32", "abcd-ef-gh"}
	for _, s := range invalid {
		assert.ErrorIs(t, ValidateISODateString(s, "Date"), ErrValidationFailed, s)
	}
}

func TestValidateNonNegative(t *testing.T) {
	assert.NoError(t, ValidateNonNegative(0, "Amount"))
	assert.NoError(t, ValidateNonNegative(99.9, "Amount"))
	assert.ErrorIs(t, ValidateNonNegative(-0.01, "Amount"), ErrValidationFailed)
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "olá", SanitizeText("olá"))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "negrito", SanitizeText("<b>negrito</b>"))
}
