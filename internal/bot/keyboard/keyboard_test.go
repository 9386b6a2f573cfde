package keyboard_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzamovUSA/debt-control/internal/bot/keyboard"
	"github.com/AzamovUSA/debt-control/internal/debt"
	"github.com/AzamovUSA/debt-control/internal/domain"
)

type mockTranslator struct {
	translations map[string]string
	lang         string
}

func (m *mockTranslator) T(key string) string {
	if val, ok := m.translations[key]; ok {
		return val
	}
	return key
}

func (m *mockTranslator) Lang() string {
	if m.lang == "" {
		return "en"
	}
	return m.lang
}

func newTranslator() *mockTranslator {
	return &mockTranslator{
		translations: map[string]string{
			"filter.all":                 "All",
			"filter.unpaid":              "Unpaid",
			"filter.paid":                "Paid",
			"common.skip":                "Skip",
			"common.confirm":             "Confirm",
			"common.cancel":              "Cancel",
			"pagination.pagination_prev": "◀️ Prev",
			"pagination.pagination_next": "Next ▶️",
			"pagination.pagination_page": "Page {{.Page}}/{{.Total}}",
		},
	}
}

func TestEncodeCallback(t *testing.T) {
	tests := []struct {
		name      string
		unique    string
		data      string
		want      string
		wantError bool
	}{
		{name: "with data", unique: "page", data: "2", want: "page:2"},
		{name: "without data", unique: "add_confirm", data: "", want: "add_confirm"},
		{
			name:      "exceeds limit",
			unique:    strings.Repeat("x", keyboard.CallbackDataLimitBytes+1),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := keyboard.EncodeCallback(tt.unique, tt.data)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantUnique string
		wantData   string
		wantErr    bool
	}{
		{name: "unique and data", input: "paid:a1b2", wantUnique: "paid", wantData: "a1b2"},
		{name: "only unique", input: "add_cancel", wantUnique: "add_cancel"},
		{name: "multiple separators", input: "filter:unpaid:extra", wantUnique: "filter", wantData: "unpaid:extra"},
		{name: "empty input", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unique, data, err := keyboard.DecodeCallback(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUnique, unique)
			assert.Equal(t, tt.wantData, data)
		})
	}
}

func TestPaginationButtons(t *testing.T) {
	translator := newTranslator()

	testCases := []struct {
		name      string
		page      int
		total     int
		wantTexts []string
		wantData  []string
	}{
		{name: "first page", page: 1, total: 5, wantTexts: []string{"Page 1/5", "Next ▶️"}, wantData: []string{"1", "2"}},
		{name: "middle page", page: 3, total: 5, wantTexts: []string{"◀️ Prev", "Page 3/5", "Next ▶️"}, wantData: []string{"2", "3", "4"}},
		{name: "last page", page: 5, total: 5, wantTexts: []string{"◀️ Prev", "Page 5/5"}, wantData: []string{"4", "5"}},
		{name: "single page", page: 1, total: 1, wantTexts: []string{"Page 1/1"}, wantData: []string{"1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buttons := keyboard.PaginationButtons(translator, "page", tc.page, tc.total)
			require.Len(t, buttons, len(tc.wantTexts))

			for i := range tc.wantTexts {
				assert.Equal(t, tc.wantTexts[i], buttons[i].Text)
				assert.Equal(t, "page", buttons[i].Unique)
				assert.Equal(t, tc.wantData[i], buttons[i].Data)
			}
		})
	}
}

func TestListView(t *testing.T) {
	translator := newTranslator()
	builder := keyboard.NewBuilder(nil)

	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	debts := []domain.Debt{
		{ID: "11111111-1111-1111-1111-111111111111", DebtorName: "Ana", Status: domain.StatusUnpaid, DueDate: due},
		{ID: "22222222-2222-2222-2222-222222222222", DebtorName: "Bob", Status: domain.StatusPaid, DueDate: due},
	}

	summary := debt.Aggregate(debts)
	markup := builder.ListView(translator, debt.CriterionAll, summary, debts, 2, 3)
	require.NotNil(t, markup)

	// Filter tabs, one paid button for the unpaid debt, pagination.
	require.Len(t, markup.InlineKeyboard, 3)

	tabs := markup.InlineKeyboard[0]
	require.Len(t, tabs, 3)
	assert.Equal(t, "• All (2)", tabs[0].Text)
	assert.Equal(t, "filter:all", tabs[0].Data)
	assert.Equal(t, "filter:unpaid", tabs[1].Data)
	assert.Equal(t, "filter:paid", tabs[2].Data)

	paidRow := markup.InlineKeyboard[1]
	require.Len(t, paidRow, 1)
	assert.Equal(t, "✅ Ana", paidRow[0].Text)
	assert.Equal(t, "paid:11111111-1111-1111-1111-111111111111", paidRow[0].Data)

	nav := markup.InlineKeyboard[2]
	require.Len(t, nav, 3)
	assert.Equal(t, "page:1", nav[0].Data)
	assert.Equal(t, "page:3", nav[2].Data)
}

func TestConfirmButtons(t *testing.T) {
	markup := keyboard.NewBuilder(nil).ConfirmButtons(newTranslator())
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 2)
	assert.Equal(t, "Confirm", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "add_confirm", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "add_cancel", markup.InlineKeyboard[0][1].Data)
}

func TestMainMenu(t *testing.T) {
	translator := &mockTranslator{
		translations: map[string]string{
			"menu.add":  "➕ Add debt",
			"menu.list": "📒 My debts",
		},
	}

	markup := keyboard.MainMenu(translator)
	require.True(t, markup.ResizeKeyboard)
	require.Len(t, markup.ReplyKeyboard, 1)
	require.Len(t, markup.ReplyKeyboard[0], 2)
	assert.Equal(t, "➕ Add debt", markup.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "📒 My debts", markup.ReplyKeyboard[0][1].Text)
}
