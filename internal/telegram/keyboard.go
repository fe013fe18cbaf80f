package telegram

import (
	"github.com/gotd/td/tg"

	"github.com/omriShneor/schedule_bot/internal/dialogue"
	"github.com/omriShneor/schedule_bot/internal/i18n"
)

// Labeler renders button captions.
type Labeler interface {
	T(locale, key string, data map[string]any) string
}

var layouts = map[dialogue.Keyboard][][]string{
	dialogue.MainMenu: {
		{i18n.ButtonAdd, i18n.ButtonView},
		{i18n.ButtonDelete, i18n.ButtonEdit},
	},
	dialogue.ConfirmMenu: {
		{i18n.ButtonYes, i18n.ButtonNo},
	},
	dialogue.ExitMenu: {
		{i18n.ButtonExit},
	},
}

// markup builds the reply keyboard for kb. KeepKeyboard yields nil so the
// client keeps showing whatever it had.
func markup(labels Labeler, locale string, kb dialogue.Keyboard) tg.ReplyMarkupClass {
	switch kb {
	case dialogue.KeepKeyboard:
		return nil
	case dialogue.RemoveKeyboard:
		return &tg.ReplyKeyboardHide{}
	}

	layout, ok := layouts[kb]
	if !ok {
		return nil
	}

	rows := make([]tg.KeyboardButtonRow, 0, len(layout))
	for _, keys := range layout {
		buttons := make([]tg.KeyboardButtonClass, 0, len(keys))
		for _, key := range keys {
			buttons = append(buttons, &tg.KeyboardButton{Text: labels.T(locale, key, nil)})
		}
		rows = append(rows, tg.KeyboardButtonRow{Buttons: buttons})
	}

	return &tg.ReplyKeyboardMarkup{
		Resize: true,
		Rows:   rows,
	}
}
