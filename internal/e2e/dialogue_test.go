package e2e

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omriShneor/schedule_bot/internal/dialogue"
	"github.com/omriShneor/schedule_bot/internal/testutil"
)

const (
	addButton    = "📅 Добавить событие"
	viewButton   = "📋 Посмотреть события"
	deleteButton = "🗑️ Удалить событие"
	editButton   = "✏️ Изменить событие"
	yesButton    = "✅ Да"
)

func TestCreateEventAcrossTurns(t *testing.T) {
	bot := testutil.NewTestBot(t,
		testutil.Rule{
			Kind:     testutil.EventPrompt,
			Contains: "Встреча с командой",
			Reply:    `{"event_title": "Встреча с командой", "start_datetime": null, "event_place": "null"}`,
		},
		testutil.Rule{
			Kind:     testutil.EventPrompt,
			Contains: "20 сентября в 15:00",
			Reply:    `{"event_title": null, "start_datetime": "2025-09-20 15:00", "event_place": "Zoom"}`,
		},
	)

	bot.Send(addButton)
	require.Equal(t, dialogue.CollectingEvent, bot.State())

	replies := bot.Send("Встреча с командой")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Не удалось распознать дату и время начала")
	assert.Contains(t, replies[0].Text, "Название: Встреча с командой")
	assert.Equal(t, dialogue.CollectingEvent, bot.State())
	assert.Empty(t, bot.Events())

	replies = bot.Send("20 сентября в 15:00")
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "Событие добавлено")
	assert.Contains(t, replies[0].Text, "Встреча с командой — 20.09.2025 15:00")
	assert.Contains(t, replies[0].Text, "📍 Zoom")
	assert.Equal(t, dialogue.Idle, bot.State())

	events := bot.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Встреча с командой", events[0].Title)
	assert.Equal(t, "2025-09-20T15:00:00", events[0].StartTime.Format("2006-01-02T15:04:05"))
	require.NotNil(t, events[0].Place)
	assert.Equal(t, "Zoom", *events[0].Place)

	prompts := bot.Oracle.Prompts()
	require.Len(t, prompts, 2)
	for _, p := range prompts {
		assert.Contains(t, p, "2025-09-14 (Sunday)")
	}
}

func TestDeleteExactMatch(t *testing.T) {
	bot := testutil.NewTestBot(t,
		testutil.Rule{
			Kind:     testutil.EventPrompt,
			Contains: "Демо",
			Reply:    `{"event_title": "Демо", "start_datetime": "2025-09-20T18:00:00"}`,
		},
		testutil.Rule{
			Kind:     testutil.EventPrompt,
			Contains: "Ужин",
			Reply:    `{"event_title": "Ужин", "start_datetime": "2025-09-20 20:00"}`,
		},
		testutil.Rule{
			Kind:     testutil.TargetPrompt,
			Contains: "в 18:00",
			Reply:    `{"event_title": null, "start_date": "2025-09-20", "exact_time": "18:00"}`,
		},
	)

	bot.Send(addButton)
	bot.Send("Демо 20 сентября в 18:00")
	bot.Send(addButton)
	bot.Send("Ужин 20 сентября в 20:00")
	require.Len(t, bot.Events(), 2)

	bot.Send(deleteButton)
	replies := bot.Send("удали событие 20 сентября в 18:00")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Демо")
	assert.NotContains(t, replies[0].Text, "Ужин")
	assert.Equal(t, dialogue.ConfirmingDelete, bot.State())

	replies = bot.Send(yesButton)
	require.Len(t, replies, 2)
	assert.Equal(t, "✅ Успешно удалено 1 событие.", replies[0].Text)
	assert.Equal(t, dialogue.Idle, bot.State())

	events := bot.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Ужин", events[0].Title)
}

func TestViewExactTime(t *testing.T) {
	bot := testutil.NewTestBot(t,
		testutil.Rule{Kind: testutil.EventPrompt, Contains: "Завтрак", Reply: `{"event_title": "Завтрак", "start_datetime": "2025-09-20 08:00"}`},
		testutil.Rule{Kind: testutil.EventPrompt, Contains: "Демо", Reply: `{"event_title": "Демо", "start_datetime": "2025-09-20 18:00"}`},
		testutil.Rule{Kind: testutil.EventPrompt, Contains: "Ужин", Reply: `{"event_title": "Ужин", "start_datetime": "2025-09-20 20:00"}`},
		testutil.Rule{
			Kind:     testutil.RangePrompt,
			Contains: "20 сентября в 18:00",
			Reply:    `{"start_date": "2025-09-20", "end_date": null, "start_time": null, "end_time": null, "exact_time": "18:00"}`,
		},
	)

	for _, text := range []string{"Завтрак", "Демо", "Ужин"} {
		bot.Send(addButton)
		bot.Send(text)
	}
	require.Len(t, bot.Events(), 3)

	bot.Send(viewButton)
	replies := bot.Send("что у меня 20 сентября в 18:00")
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "События на 20.09.2025 в 18:00")
	assert.Contains(t, replies[0].Text, "Демо")
	assert.NotContains(t, replies[0].Text, "Завтрак")
	assert.NotContains(t, replies[0].Text, "Ужин")
}

func TestEditRejectsMalformedTimestamp(t *testing.T) {
	bot := testutil.NewTestBot(t,
		testutil.Rule{Kind: testutil.EventPrompt, Contains: "Демо", Reply: `{"event_title": "Демо", "start_datetime": "2025-09-20 18:00"}`},
		testutil.Rule{Kind: testutil.ChangesPrompt, Contains: "Перенеси", Reply: `{"start_datetime": "2025-9-5 19:00"}`},
		testutil.Rule{Kind: testutil.TargetPrompt, Contains: "Перенеси", Reply: `{"event_title": "Демо"}`},
	)

	bot.Send(addButton)
	bot.Send("Демо")

	bot.Send(editButton)
	replies := bot.Send("Перенеси демо на 5 сентября в 19:00")
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "Нечего изменять")
	assert.Equal(t, dialogue.Idle, bot.State())

	events := bot.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "2025-09-20T18:00:00", events[0].StartTime.Format("2006-01-02T15:04:05"))
}

func TestEditConfirmed(t *testing.T) {
	bot := testutil.NewTestBot(t,
		testutil.Rule{Kind: testutil.EventPrompt, Contains: "Демо", Reply: `{"event_title": "Демо", "start_datetime": "2025-09-20 18:00"}`},
		testutil.Rule{
			Kind:     testutil.ChangesPrompt,
			Contains: "Перенеси",
			Reply:    `{"event_title": null, "start_datetime": "2025-09-21T19:00:00", "event_place": "Офис"}`,
		},
		testutil.Rule{Kind: testutil.TargetPrompt, Contains: "Перенеси", Reply: `{"event_title": "демо", "start_date": null}`},
	)

	bot.Send(addButton)
	bot.Send("Демо")

	bot.Send(editButton)
	replies := bot.Send("Перенеси демо на завтра в 19:00 в офис")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "🕐 Время: 18:00 → 19:00")
	assert.Contains(t, replies[0].Text, "📍 Место: не задано → Офис")
	assert.Equal(t, dialogue.ConfirmingEdit, bot.State())

	replies = bot.Send("да")
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "Событие успешно изменено")

	events := bot.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "2025-09-21T19:00:00", events[0].StartTime.Format("2006-01-02T15:04:05"))
	require.NotNil(t, events[0].Place)
	assert.Equal(t, "Офис", *events[0].Place)
}

func TestOracleUnavailable(t *testing.T) {
	bot := testutil.NewTestBot(t)
	bot.Oracle.Close()

	bot.Send(addButton)
	replies := bot.Send("Встреча завтра в 10:00")

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Text, "Не удалось распознать название события и дату/время начала")
	assert.Equal(t, dialogue.CollectingEvent, bot.State())
	assert.Empty(t, bot.Events())
}

func TestUsersAreIsolated(t *testing.T) {
	bot := testutil.NewTestBot(t,
		testutil.Rule{Kind: testutil.EventPrompt, Contains: "Демо", Reply: `{"event_title": "Демо", "start_datetime": "2025-09-20 18:00"}`},
	)

	other := func(text string) []dialogue.Reply {
		return bot.Engine.Handle(context.Background(), dialogue.Message{UserID: 777, Text: text, Locale: "en"})
	}

	bot.Send(addButton)
	other("📋 View events")
	assert.Equal(t, dialogue.CollectingEvent, bot.State())
	assert.Equal(t, dialogue.CollectingPeriod, bot.Sessions.Get(777).State)

	bot.Send("Демо")
	assert.Len(t, bot.Events(), 1)

	replies := other("/export")
	require.Len(t, replies, 2)
	assert.Contains(t, replies[0].Text, "no events yet")
}
