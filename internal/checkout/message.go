package checkout

import (
	"fmt"
	"strings"
)

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

func escapeMarkdown(value string) string {
	return markdownEscaper.Replace(value)
}

// FormatMessage renders the Markdown order summary posted to the order chat.
func FormatMessage(order Order) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	client := strings.Join(nonEmpty(order.LastName, order.FirstName, order.MiddleName), " ")

	line("🔥 *НОВЕ ЗАМОВЛЕННЯ*")
	line("🧾 *Номер:* %s", escapeMarkdown(order.Ref))
	line("👤 *Клієнт:* %s", escapeMarkdown(client))
	line("📞 *Телефон:* %s", escapeMarkdown(order.Phone))
	if order.Telegram != "" {
		line("✈️ *Telegram:* %s", escapeMarkdown(order.Telegram))
	}
	if order.Email != "" {
		line("📧 *Email:* %s", escapeMarkdown(order.Email))
	}
	b.WriteByte('\n')
	line("💰 *Сума:* %s грн", order.Totals.Subtotal.String())
	if order.Totals.Discount.IsPositive() {
		line("💎 *Списано балів:* %s", order.Totals.Discount.String())
	}
	line("💵 *До сплати:* %s грн", order.Totals.Final.String())
	line("🎁 *Буде нараховано:* %d балів", order.Totals.PointsToEarn)
	b.WriteByte('\n')
	line("🚚 *Доставка:* %s, %s", escapeMarkdown(order.CityName), escapeMarkdown(order.Department))
	line("💳 *Оплата:* %s", order.Payment.Label())
	if order.Comment != "" {
		line("💬 *Коментар:* %s", escapeMarkdown(order.Comment))
	}
	b.WriteByte('\n')
	line("📦 *Товари:*")
	for _, l := range order.Lines {
		name := l.Name
		if len(l.Addons) > 0 {
			addons := make([]string, 0, len(l.Addons))
			for _, a := range l.Addons {
				addons = append(addons, a.Name)
			}
			name = fmt.Sprintf("%s + %s", name, strings.Join(addons, ", "))
		}
		line("— %s (%d шт)", escapeMarkdown(name), l.Quantity)
	}
	return strings.TrimRight(b.String(), "\n")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
