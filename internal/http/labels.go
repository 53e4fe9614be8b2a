package http

import "neirocalendar/internal/core"

// uiText holds the fixed strings of the calendar pages.
type uiText struct {
	Lang          string
	Title         string
	Prev          string
	Next          string
	Today         string
	Total         string
	Attended      string
	PricePerVisit string
	Export        string
	AddVisit      string
	AddRecurring  string
	PersonName    string
	Date          string
	Months        string
	Save          string
	Check         string
	Uncheck       string
	Delete        string
	NoVisits      string
	Created       string
	CreatedMany   string
	Updated       string
	Deleted       string
	NotFound      string
	StoreFailure  string
}

var uiTexts = map[string]uiText{
	core.LocaleRussian: {
		Lang:          "ru",
		Title:         "Календарь посещений",
		Prev:          "Назад",
		Next:          "Вперёд",
		Today:         "Сегодня",
		Total:         "Итого",
		Attended:      "Посещений",
		PricePerVisit: "Цена за визит",
		Export:        "Скачать PDF",
		AddVisit:      "Записать",
		AddRecurring:  "Записать на несколько месяцев",
		PersonName:    "Имя",
		Date:          "Дата",
		Months:        "Месяцев",
		Save:          "Сохранить",
		Check:         "Пришёл",
		Uncheck:       "Не пришёл",
		Delete:        "Удалить",
		NoVisits:      "Нет записей",
		Created:       "Запись добавлена",
		CreatedMany:   "Записи добавлены",
		Updated:       "Запись обновлена",
		Deleted:       "Запись удалена",
		NotFound:      "Запись не найдена",
		StoreFailure:  "Ошибка сохранения, попробуйте позже",
	},
	core.LocaleEnglish: {
		Lang:          "en",
		Title:         "Attendance calendar",
		Prev:          "Previous",
		Next:          "Next",
		Today:         "Today",
		Total:         "Total",
		Attended:      "Attended",
		PricePerVisit: "Price per visit",
		Export:        "Download PDF",
		AddVisit:      "Book visit",
		AddRecurring:  "Book for several months",
		PersonName:    "Name",
		Date:          "Date",
		Months:        "Months",
		Save:          "Save",
		Check:         "Attended",
		Uncheck:       "Not attended",
		Delete:        "Delete",
		NoVisits:      "No visits",
		Created:       "Visit booked",
		CreatedMany:   "Visits booked",
		Updated:       "Visit updated",
		Deleted:       "Visit deleted",
		NotFound:      "Visit not found",
		StoreFailure:  "Could not save, try again later",
	},
}

func textFor(locale string) uiText {
	if t, ok := uiTexts[locale]; ok {
		return t
	}
	return uiTexts[core.DefaultLocale]
}
