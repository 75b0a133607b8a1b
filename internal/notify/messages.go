package notify

// Тексты уведомлений. Администраторы получают алерты в общий чат,
// клиент - личные сообщения в чат, из которого пришла заявка.
const (
	msgNewBooking = "Новая заявка #%d: %s, %s, гостей: %d, %s - %s. Подтвердите или отклоните до %s."

	msgHoldWarning = "Заявка #%d (%s, %s - %s) ждет решения. Холд истекает в %s."

	msgHoldExpiredAdmin  = "Заявка #%d снята: холд истек без решения."
	msgHoldExpiredClient = "К сожалению, ваша заявка №%d не была подтверждена вовремя и снята. Попробуйте выбрать другое время."

	msgConfirmedClient = "Ваша заявка №%d подтверждена! Ждем вас %s в %s."
	msgRejectedClient  = "К сожалению, ваша заявка №%d отклонена. Попробуйте выбрать другое время."
	msgCancelledClient = "Ваша заявка №%d отменена."
)
