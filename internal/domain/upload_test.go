package domain

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUploadDocument_ObjectForm(t *testing.T) {
	doc, err := ParseUploadDocument([]byte(`{
		"categories": [{"type": "spend", "name": "Groceries"}],
		"bank_accounts": [{"name": "Checking"}],
		"tags": [{"name": "vacation"}],
		"transactions": [{"date": "2024-03-01", "type": "spend", "amount": 12.50}]
	}`))
	require.NoError(t, err)
	assert.False(t, doc.Legacy)
	assert.Len(t, doc.Categories, 1)
	assert.Len(t, doc.BankAccounts, 1)
	assert.Len(t, doc.Tags, 1)
	assert.Len(t, doc.Transactions, 1)
}

func TestParseUploadDocument_LegacyArray(t *testing.T) {
	doc, err := ParseUploadDocument([]byte(`[
		{"date": "2024-03-01", "type": "spend", "amount": 5},
		{"date": "2024-03-02", "type": "earn", "amount": 100}
	]`))
	require.NoError(t, err)
	assert.True(t, doc.Legacy)
	assert.Empty(t, doc.Categories)
	assert.Len(t, doc.Transactions, 2)
}

func TestParseUploadDocument_PartialSections(t *testing.T) {
	doc, err := ParseUploadDocument([]byte(`{"tags": [{"name": "a"}]}`))
	require.NoError(t, err)
	assert.Len(t, doc.Tags, 1)
	assert.Empty(t, doc.Transactions)
}

func TestParseUploadDocument_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"oversized", bytes.Repeat([]byte(" "), MaxUploadSize+1), ErrUploadTooLarge},
		{"invalid utf8", []byte{'{', 0xff, 0xfe, '}'}, ErrUploadNotUTF8},
		{"truncated json", []byte(`{"transactions": [`), ErrUploadBadJSON},
		{"empty body", []byte(``), ErrUploadBadJSON},
		{"scalar", []byte(`42`), ErrUploadBadShape},
		{"string", []byte(`"hello"`), ErrUploadBadShape},
		{"empty object", []byte(`{}`), ErrUploadEmpty},
		{"empty array", []byte(`[]`), ErrUploadEmpty},
		{"all sections empty", []byte(`{"categories": [], "transactions": []}`), ErrUploadEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUploadDocument(tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseUploadDocument_MalformedRowSurvivesParse(t *testing.T) {
	// A row of the wrong shape is kept raw; it becomes a row error during
	// decoding, not a document rejection.
	doc, err := ParseUploadDocument([]byte(`{"transactions": [42, {"date": "2024-01-01", "type": "earn", "amount": 1}]}`))
	require.NoError(t, err)
	require.Len(t, doc.Transactions, 2)

	_, err = DecodeUploadTransaction(doc.Transactions[0])
	assert.Error(t, err)
	_, err = DecodeUploadTransaction(doc.Transactions[1])
	assert.NoError(t, err)
}

func TestDecodeUploadCategory(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"type": "spend", "name": "Groceries"}`, false},
		{"trims name", `{"type": "earn", "name": "  Salary  "}`, false},
		{"missing type", `{"name": "Groceries"}`, true},
		{"bad type", `{"type": "invest", "name": "Stocks"}`, true},
		{"blank name", `{"type": "spend", "name": "   "}`, true},
		{"not an object", `"spend"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := DecodeUploadCategory(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, row.Name)
			assert.Equal(t, row.Name, string(bytes.TrimSpace([]byte(row.Name))))
		})
	}
}

func TestDecodeUploadTransaction(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"valid", `{"date": "2024-03-01", "type": "spend", "amount": 12.50}`, ""},
		{"valid with refs", `{"date": "2024-03-01", "type": "spend", "amount": 3, "category": "Food", "bank_account": "Checking", "tags": ["a", "b"]}`, ""},
		{"missing date", `{"type": "spend", "amount": 1}`, "date is required"},
		{"missing amount", `{"date": "2024-03-01", "type": "spend"}`, "amount is required"},
		{"null amount", `{"date": "2024-03-01", "type": "spend", "amount": null}`, "amount is required"},
		{"bad date", `{"date": "01/03/2024", "type": "spend", "amount": 1}`, "not a valid YYYY-MM-DD date"},
		{"impossible date", `{"date": "2024-02-30", "type": "spend", "amount": 1}`, "not a valid YYYY-MM-DD date"},
		{"bad type", `{"date": "2024-03-01", "type": "transfer", "amount": 1}`, "type must be one of"},
		{"negative amount", `{"date": "2024-03-01", "type": "spend", "amount": -5}`, "must not be negative"},
		{"too many decimals", `{"date": "2024-03-01", "type": "spend", "amount": 1.999}`, "at most 2 decimal places"},
		{"amount as string garbage", `{"date": "2024-03-01", "type": "spend", "amount": "abc"}`, "not a valid transaction object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeUploadTransaction(json.RawMessage(tt.raw))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeUploadTransaction_ZeroAmount(t *testing.T) {
	row, err := DecodeUploadTransaction(json.RawMessage(`{"date": "2024-03-01", "type": "save", "amount": 0}`))
	require.NoError(t, err)
	assert.True(t, row.Amount.IsZero())
}

func TestDecodeUploadTransaction_TrimsReferenceNames(t *testing.T) {
	row, err := DecodeUploadTransaction(json.RawMessage(
		`{"date": "2024-03-01", "type": "spend", "amount": 5, "category": " Groceries ", "bank_account": "  Checking", "tags": [" weekly "]}`))
	require.NoError(t, err)
	assert.Equal(t, "Groceries", *row.Category)
	assert.Equal(t, "Checking", *row.BankAccount)
	assert.Equal(t, []string{"weekly"}, row.Tags)
}

func TestUploadDocument_Summary(t *testing.T) {
	doc, err := ParseUploadDocument([]byte(`{
		"categories": [{"type": "spend", "name": "a"}, {"type": "earn", "name": "b"}],
		"transactions": [{"date": "2024-03-01", "type": "spend", "amount": 1}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "2 categories, 0 bank accounts, 0 tags, 1 transactions", doc.Summary())
}

func TestUploadDetails_Empty(t *testing.T) {
	details := &UploadDetails{}
	assert.True(t, details.Empty())

	details.Transactions = append(details.Transactions, RowError{Index: 3, Error: "boom"})
	assert.False(t, details.Empty())
}

func TestUploadResult_JSONShape(t *testing.T) {
	result := UploadResult{
		Success:              true,
		CategoriesInserted:   2,
		TransactionsInserted: 5,
		Details: &UploadDetails{
			Transactions: []RowError{{Index: 4, Error: "tag \"x\" not found"}},
		},
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.EqualValues(t, 2, decoded["categories_inserted"])
	assert.EqualValues(t, 5, decoded["transactions_inserted"])
	assert.NotContains(t, decoded, "error")

	details := decoded["details"].(map[string]interface{})
	rows := details["transactions"].([]interface{})
	row := rows[0].(map[string]interface{})
	assert.EqualValues(t, 4, row["index"])
}
