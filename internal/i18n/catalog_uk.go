package i18n

var catalogUK = map[string]string{
	"start.welcome": "👋 Вітаємо, {name}! Тут ви можете розмістити оголошення в каналі.",

	"agreement.text":   "📄 Перед розміщенням оголошень підтвердіть згоду з правилами майданчика.",
	"agreement.accept": "✅ Погоджуюсь",
	"agreement.saved":  "✅ Дякуємо! Тепер вам доступні всі функції.",

	"menu.title":       "Головне меню",
	"menu.add_listing": "➕ Додати оголошення",
	"menu.my_listings": "📋 Мої оголошення",
	"menu.about":       "ℹ️ Про нас",
	"menu.profile":     "👤 Профіль",
	"menu.support":     "🆘 Підтримка",
	"menu.referral":    "🎁 Реферальна програма",
	"menu.cancel":      "❌ Скасувати",
	"menu.back":        "⬅️ Назад",

	"language.choose": "Оберіть мову:",
	"language.saved":  "✅ Мову збережено.",

	"draft.title_prompt":        "✏️ Введіть назву оголошення (від 3 до 100 символів):",
	"draft.title_invalid":       "⚠️ Назва має містити від 3 до 100 символів. Спробуйте ще раз.",
	"draft.description_prompt":  "📝 Введіть опис (від 10 до 600 символів):",
	"draft.description_invalid": "⚠️ Опис має містити від 10 до 600 символів. Спробуйте ще раз.",
	"draft.photos_prompt":       "📷 Надішліть до 10 фото або відео. Коли закінчите, натисніть «Далі».",
	"draft.photos_continue":     "➡️ Далі",
	"draft.photos_ack":          "✅ Додано. Всього медіа: {count}",
	"draft.photos_limit":        "⚠️ Максимум 10 медіа, зайві не додано.",
	"draft.category_prompt":     "📂 Оберіть категорію:",
	"draft.category_invalid":    "⚠️ Оберіть категорію з клавіатури.",
	"draft.price_prompt":        "💶 Вкажіть ціну в EUR: число, діапазон (50-100) або «Договірна».",
	"draft.price_invalid":       "⚠️ Не вдалося розпізнати ціну. Приклади: 100, 50-100, «Договірна».",
	"draft.price_negotiable":    "🤝 Договірна",
	"draft.location_prompt":     "📍 Вкажіть місто:",
	"draft.location_invalid":    "⚠️ Назва міста закоротка.",
	"draft.preview_header":      "👀 Перевірте оголошення:",
	"draft.preview_confirm":     "✅ Опублікувати",
	"draft.preview_edit":        "✏️ Редагувати",
	"draft.edit_choose":         "Що саме відредагувати?",
	"draft.edit_title":          "Назва",
	"draft.edit_description":    "Опис",
	"draft.edit_photos":         "Фото",
	"draft.edit_category":       "Категорія",
	"draft.edit_price":          "Ціна",
	"draft.edit_location":       "Місто",
	"draft.cancelled":           "❌ Створення оголошення скасовано.",
	"draft.saved":               "💾 Оголошення збережено. Оберіть тариф розміщення.",

	"price.negotiable": "Договірна",

	"tariffs.prompt":           "🛒 Оберіть додаткові опції. До сплати: {total} EUR",
	"tariffs.standard_locked":  "⚠️ Тариф «Стандарт» завжди включений.",
	"tariffs.unknown":          "⚠️ Невідомий тариф.",
	"tariffs.confirm":          "✅ Підтвердити",
	"tariffs.name.standard":    "Стандарт (0.00)",
	"tariffs.name.highlighted": "🔝 Виділене (1.50)",
	"tariffs.name.pinned_12h":  "📌 Закріп 12 год (2.50)",
	"tariffs.name.pinned_24h":  "📌 Закріп 24 год (4.50)",
	"tariffs.name.story":       "📖 Сторіс (5.00)",

	"payment.choose":              "💳 До сплати: {total} EUR. Оберіть спосіб оплати:",
	"payment.balance":             "💰 З балансу ({balance} EUR)",
	"payment.card":                "💳 Карткою",
	"payment.pay_button":          "💳 Перейти до оплати",
	"payment.insufficient":        "⚠️ Недостатньо коштів на балансі.",
	"payment.invoice_created":     "🧾 Рахунок створено. Оплатіть за посиланням і поверніться в чат.",
	"payment.sent_to_moderation":  "📨 Оголошення надіслано на модерацію.",
	"payment.success_publication": "✅ Оплату отримано! Оголошення надіслано на модерацію.",
	"payment.success_refresh":     "✅ Оплату отримано! Оголошення оновлено в каналі.",
	"payment.failed":              "❌ Оплата не пройшла. Спробуйте ще раз.",

	"moderation.card_header":         "🗂 Модерація #{id} [{source}]",
	"moderation.approve":             "✅ Схвалити",
	"moderation.reject":              "❌ Відхилити",
	"moderation.reject_reason_prompt": "Вкажіть причину відхилення оголошення #{id} (мінімум 5 символів):",
	"moderation.reason_too_short":    "⚠️ Причина закоротка (мінімум 5 символів).",
	"moderation.approved_note":       "✅ Оголошення #{id} схвалено та опубліковано.",
	"moderation.rejected_note":       "❌ Оголошення #{id} відхилено.",
	"moderation.payment_pending":     "⚠️ Оплата ще не отримана, схвалення неможливе.",
	"moderation.already_decided":     "⚠️ Рішення вже прийнято.",

	"listing.approved_notice": "🎉 Ваше оголошення «{title}» опубліковано в каналі!",
	"listing.view_button":     "Переглянути оголошення",
	"listing.rejected_notice": "😔 Ваше оголошення «{title}» відхилено.\nПричина: {reason}\nПовернено на баланс: {refund} EUR",
	"listing.edit_button":     "✏️ Редагувати",
	"listing.refresh_too_soon": "⚠️ Оновити можна не раніше ніж через годину після публікації.",
	"listing.refreshed_notice": "🔄 Оголошення «{title}» оновлено в каналі.",
	"listing.sold_done":        "✅ Оголошення позначено як продане.",
	"listing.deleted_done":     "🗑 Оголошення видалено.",

	"listing.status.pending_moderation": "⏳ На модерації",
	"listing.status.approved":           "✅ Опубліковано",
	"listing.status.published":          "✅ Опубліковано",
	"listing.status.rejected":           "❌ Відхилено",
	"listing.status.expired":            "🕓 Термін вийшов",
	"listing.status.sold":               "💰 Продано",
	"listing.status.deleted":            "🗑 Видалено",

	"mylistings.header":         "📋 Ваші оголошення:",
	"mylistings.empty":          "У вас поки немає оголошень.",
	"mylistings.sold_button":    "💰 Продано",
	"mylistings.delete_button":  "🗑 Видалити",
	"mylistings.refresh_button": "🔄 Оновити (1.50 EUR)",

	"profile.info":  "👤 Профіль\nБаланс: {balance} EUR\nМова: {lang}\nАктивних оголошень: {active}",
	"about.text":    "ℹ️ Дошка оголошень для української громади. Публікації виходять у каналі після модерації.",
	"about.catalog": "🌐 Каталог оголошень: {url}",
	"support.text":  "🆘 З питаннями звертайтеся до {manager}.",
	"referral.info": "🎁 Запрошуйте друзів і отримуйте 1 EUR за перше схвалене оголошення друга.\nВаше посилання: {link}\nЗапрошено: {count}",

	"channel.price":    "💶 Ціна",
	"channel.category": "📂 Категорія",
	"channel.location": "📍 Місто",
	"channel.seller":   "👤 Продавець",
	"channel.cta":      "Розмістити оголошення 👉 {link}",
	"channel.post_button": "➕ Розмістити оголошення",
	"channel.top_marker":  "🔝🔝🔝",

	"category.electronics": "Електроніка",
	"category.furniture":   "Меблі",
	"category.clothes":     "Одяг",
	"category.kids":        "Дитяче",
	"category.auto":        "Авто",
	"category.services":    "Послуги",
	"category.realty":      "Нерухомість",
	"category.free":        "Віддам даром",
	"category.other":       "Інше",

	"admin.panel":             "🛠 Адмін-панель",
	"admin.not_admin":         "⛔ Доступ лише для адміністраторів.",
	"admin.superadmin_locked": "⛔ Суперадміністратора не можна видалити.",
	"admin.admins_list":       "👮 Адміністратори:",
	"admin.links_list":        "🔗 Посилання:",
	"admin.stats":             "📊 Статистика\nКористувачів: {users}\nОголошень: {listings}",
	"admin.user_not_found":    "⚠️ Користувача не знайдено.",

	"errors.internal":            "😵 Щось пішло не так. Спробуйте пізніше.",
	"errors.not_found":           "⚠️ Не знайдено.",
	"errors.permission_denied":   "⛔ Недостатньо прав.",
	"errors.precondition_failed": "⚠️ Дія зараз неможлива.",
}
