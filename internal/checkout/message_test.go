package checkout

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMessage(t *testing.T) {
	order := sampleOrder()
	order.MiddleName = "Ivanovych"
	order.Telegram = "@ivan_p"
	order.Comment = "Дзвоніть після 18"

	got := FormatMessage(order)

	want := strings.Join([]string{
		"🔥 *НОВЕ ЗАМОВЛЕННЯ*",
		"🧾 *Номер:* SH-20260412-ABC123",
		"👤 *Клієнт:* Petrenko Ivan Ivanovych",
		"📞 *Телефон:* +380501112233",
		"✈️ *Telegram:* @ivan\\_p",
		"",
		"💰 *Сума:* 200 грн",
		"💵 *До сплати:* 200 грн",
		"🎁 *Буде нараховано:* 10 балів",
		"",
		"🚚 *Доставка:* Київ, Відділення №1",
		"💳 *Оплата:* Оплата на карту",
		"💬 *Коментар:* Дзвоніть після 18",
		"",
		"📦 *Товари:*",
		"— Elf Liq (Mango) + Ice booster, Sour booster (2 шт)",
		"— Xros (1 шт)",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormatMessageShowsRedeemedPoints(t *testing.T) {
	order := sampleOrder()
	order.Email = "ivan@example.com"
	order.Totals.Discount = decimal.NewFromInt(50)
	order.Totals.Final = decimal.NewFromInt(150)
	order.Totals.PointsToEarn = 0

	got := FormatMessage(order)
	assert.Contains(t, got, "📧 *Email:* ivan@example.com")
	assert.Contains(t, got, "💎 *Списано балів:* 50")
	assert.Contains(t, got, "💵 *До сплати:* 150 грн")
	assert.Contains(t, got, "💳 *Оплата:* Оплата на карту")
	assert.NotContains(t, got, "Коментар")
}

func TestValidateInputAcceptsMinimalForm(t *testing.T) {
	assert.NoError(t, ValidateInput(validInput()))

	input := validInput()
	input.Email = "not-an-email"
	assert.Error(t, ValidateInput(input))
}
