package i18n

var catalogRU = map[string]string{
	"start.welcome": "👋 Добро пожаловать, {name}! Здесь вы можете разместить объявление в канале.",

	"agreement.text":   "📄 Перед размещением объявлений подтвердите согласие с правилами площадки.",
	"agreement.accept": "✅ Соглашаюсь",
	"agreement.saved":  "✅ Спасибо! Теперь вам доступны все функции.",

	"menu.title":       "Главное меню",
	"menu.add_listing": "➕ Добавить объявление",
	"menu.my_listings": "📋 Мои объявления",
	"menu.about":       "ℹ️ О нас",
	"menu.profile":     "👤 Профиль",
	"menu.support":     "🆘 Поддержка",
	"menu.referral":    "🎁 Реферальная программа",
	"menu.cancel":      "❌ Отменить",
	"menu.back":        "⬅️ Назад",

	"language.choose": "Выберите язык:",
	"language.saved":  "✅ Язык сохранён.",

	"draft.title_prompt":        "✏️ Введите название объявления (от 3 до 100 символов):",
	"draft.title_invalid":       "⚠️ Название должно содержать от 3 до 100 символов. Попробуйте ещё раз.",
	"draft.description_prompt":  "📝 Введите описание (от 10 до 600 символов):",
	"draft.description_invalid": "⚠️ Описание должно содержать от 10 до 600 символов. Попробуйте ещё раз.",
	"draft.photos_prompt":       "📷 Отправьте до 10 фото или видео. Когда закончите, нажмите «Далее».",
	"draft.photos_continue":     "➡️ Далее",
	"draft.photos_ack":          "✅ Добавлено. Всего медиа: {count}",
	"draft.photos_limit":        "⚠️ Максимум 10 медиа, лишние не добавлены.",
	"draft.category_prompt":     "📂 Выберите категорию:",
	"draft.category_invalid":    "⚠️ Выберите категорию с клавиатуры.",
	"draft.price_prompt":        "💶 Укажите цену в EUR: число, диапазон (50-100) или «Договорная».",
	"draft.price_invalid":       "⚠️ Не удалось распознать цену. Примеры: 100, 50-100, «Договорная».",
	"draft.price_negotiable":    "🤝 Договорная",
	"draft.location_prompt":     "📍 Укажите город:",
	"draft.location_invalid":    "⚠️ Название города слишком короткое.",
	"draft.preview_header":      "👀 Проверьте объявление:",
	"draft.preview_confirm":     "✅ Опубликовать",
	"draft.preview_edit":        "✏️ Редактировать",
	"draft.edit_choose":         "Что именно отредактировать?",
	"draft.edit_title":          "Название",
	"draft.edit_description":    "Описание",
	"draft.edit_photos":         "Фото",
	"draft.edit_category":       "Категория",
	"draft.edit_price":          "Цена",
	"draft.edit_location":       "Город",
	"draft.cancelled":           "❌ Создание объявления отменено.",
	"draft.saved":               "💾 Объявление сохранено. Выберите тариф размещения.",

	"price.negotiable": "Договорная",

	"tariffs.prompt":           "🛒 Выберите дополнительные опции. К оплате: {total} EUR",
	"tariffs.standard_locked":  "⚠️ Тариф «Стандарт» включён всегда.",
	"tariffs.unknown":          "⚠️ Неизвестный тариф.",
	"tariffs.confirm":          "✅ Подтвердить",
	"tariffs.name.standard":    "Стандарт (0.00)",
	"tariffs.name.highlighted": "🔝 Выделенное (1.50)",
	"tariffs.name.pinned_12h":  "📌 Закреп 12 ч (2.50)",
	"tariffs.name.pinned_24h":  "📌 Закреп 24 ч (4.50)",
	"tariffs.name.story":       "📖 Сторис (5.00)",

	"payment.choose":              "💳 К оплате: {total} EUR. Выберите способ оплаты:",
	"payment.balance":             "💰 С баланса ({balance} EUR)",
	"payment.card":                "💳 Картой",
	"payment.pay_button":          "💳 Перейти к оплате",
	"payment.insufficient":        "⚠️ Недостаточно средств на балансе.",
	"payment.invoice_created":     "🧾 Счёт создан. Оплатите по ссылке и вернитесь в чат.",
	"payment.sent_to_moderation":  "📨 Объявление отправлено на модерацию.",
	"payment.success_publication": "✅ Оплата получена! Объявление отправлено на модерацию.",
	"payment.success_refresh":     "✅ Оплата получена! Объявление обновлено в канале.",
	"payment.failed":              "❌ Оплата не прошла. Попробуйте ещё раз.",

	"moderation.card_header":          "🗂 Модерация #{id} [{source}]",
	"moderation.approve":              "✅ Одобрить",
	"moderation.reject":               "❌ Отклонить",
	"moderation.reject_reason_prompt": "Укажите причину отклонения объявления #{id} (минимум 5 символов):",
	"moderation.reason_too_short":     "⚠️ Причина слишком короткая (минимум 5 символов).",
	"moderation.approved_note":        "✅ Объявление #{id} одобрено и опубликовано.",
	"moderation.rejected_note":        "❌ Объявление #{id} отклонено.",
	"moderation.payment_pending":      "⚠️ Оплата ещё не получена, одобрение невозможно.",
	"moderation.already_decided":      "⚠️ Решение уже принято.",

	"listing.approved_notice": "🎉 Ваше объявление «{title}» опубликовано в канале!",
	"listing.view_button":     "Посмотреть объявление",
	"listing.rejected_notice": "😔 Ваше объявление «{title}» отклонено.\nПричина: {reason}\nВозвращено на баланс: {refund} EUR",
	"listing.edit_button":     "✏️ Редактировать",
	"listing.refresh_too_soon": "⚠️ Обновить можно не раньше чем через час после публикации.",
	"listing.refreshed_notice": "🔄 Объявление «{title}» обновлено в канале.",
	"listing.sold_done":        "✅ Объявление отмечено как проданное.",
	"listing.deleted_done":     "🗑 Объявление удалено.",

	"listing.status.pending_moderation": "⏳ На модерации",
	"listing.status.approved":           "✅ Опубликовано",
	"listing.status.published":          "✅ Опубликовано",
	"listing.status.rejected":           "❌ Отклонено",
	"listing.status.expired":            "🕓 Срок истёк",
	"listing.status.sold":               "💰 Продано",
	"listing.status.deleted":            "🗑 Удалено",

	"mylistings.header":         "📋 Ваши объявления:",
	"mylistings.empty":          "У вас пока нет объявлений.",
	"mylistings.sold_button":    "💰 Продано",
	"mylistings.delete_button":  "🗑 Удалить",
	"mylistings.refresh_button": "🔄 Обновить (1.50 EUR)",

	"profile.info":  "👤 Профиль\nБаланс: {balance} EUR\nЯзык: {lang}\nАктивных объявлений: {active}",
	"about.text":    "ℹ️ Доска объявлений для украинской общины. Публикации выходят в канале после модерации.",
	"about.catalog": "🌐 Каталог объявлений: {url}",
	"support.text":  "🆘 По вопросам обращайтесь к {manager}.",
	"referral.info": "🎁 Приглашайте друзей и получайте 1 EUR за первое одобренное объявление друга.\nВаша ссылка: {link}\nПриглашено: {count}",

	"channel.price":       "💶 Цена",
	"channel.category":    "📂 Категория",
	"channel.location":    "📍 Город",
	"channel.seller":      "👤 Продавец",
	"channel.cta":         "Разместить объявление 👉 {link}",
	"channel.post_button": "➕ Разместить объявление",
	"channel.top_marker":  "🔝🔝🔝",

	"category.electronics": "Электроника",
	"category.furniture":   "Мебель",
	"category.clothes":     "Одежда",
	"category.kids":        "Детское",
	"category.auto":        "Авто",
	"category.services":    "Услуги",
	"category.realty":      "Недвижимость",
	"category.free":        "Отдам даром",
	"category.other":       "Другое",

	"admin.panel":             "🛠 Админ-панель",
	"admin.not_admin":         "⛔ Доступ только для администраторов.",
	"admin.superadmin_locked": "⛔ Суперадминистратора нельзя удалить.",
	"admin.admins_list":       "👮 Администраторы:",
	"admin.links_list":        "🔗 Ссылки:",
	"admin.stats":             "📊 Статистика\nПользователей: {users}\nОбъявлений: {listings}",
	"admin.user_not_found":    "⚠️ Пользователь не найден.",

	"errors.internal":            "😵 Что-то пошло не так. Попробуйте позже.",
	"errors.not_found":           "⚠️ Не найдено.",
	"errors.permission_denied":   "⛔ Недостаточно прав.",
	"errors.precondition_failed": "⚠️ Действие сейчас невозможно.",
}
