package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Collection is the store collection holding transactions.
const Collection = "transactions"

// DateLayout is the format of Transaction.Date.
const DateLayout = "2006-01-02"

// Type is the direction of a transaction.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is income or expense.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// DefaultCategory is the category a new transaction of type t starts with.
func DefaultCategory(t Type) string {
	if t == TypeExpense {
		return "Software"
	}
	return "Product Sale"
}

// Amount is a stored amount. Documents are schemaless, so anything that
// isn't a finite number or a numeric string decodes as 0.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		*a = Amount(n)
	case string:
		*a = ParseAmount(n)
	}
	return nil
}

// ParseAmount reads the leading number of s, the way a lenient form
// field does. Non-numeric input is 0.
func ParseAmount(s string) Amount {
	f, ok := parseLeadingFloat(s)
	if !ok {
		return 0
	}
	return Amount(f)
}

func parseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	tok := leadingNumber(s)
	if tok == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// leadingNumber returns the longest prefix of s of the form
// [+-]digits[.digits][e[+-]digits], or "" if s has no leading digits.
func leadingNumber(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			end = j
		}
	}
	return s[:end]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Transaction is one income or expense entry.
type Transaction struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      Amount `json:"amount"`
	Date        string `json:"date"`
	Type        Type   `json:"type"`
	Category    string `json:"category"`
}

// Draft is the editable part of a transaction. Amount is the raw input.
type Draft struct {
	Description string
	Amount      string
	Date        string
	Type        Type
	Category    string
}

// DraftOf returns the draft for editing tx.
func DraftOf(tx Transaction) Draft {
	return Draft{
		Description: tx.Description,
		Amount:      strconv.FormatFloat(float64(tx.Amount), 'f', -1, 64),
		Date:        tx.Date,
		Type:        tx.Type,
		Category:    tx.Category,
	}
}
