package dialogue

import (
	"github.com/omriShneor/schedule_bot/internal/extract"
	"github.com/omriShneor/schedule_bot/internal/i18n"
	"github.com/omriShneor/schedule_bot/internal/timeutil"
)

const skipMark = "-"

// optional reads a field that may be skipped with "-".
func optional(text string) *string {
	if text == skipMark {
		return nil
	}
	return extract.Clean(text)
}

// step advances the linear entry dialogue by one answer.
func (e *Engine) step(tn *turn, sess Session) Session {
	p := sess.Partial

	switch sess.State {
	case StepTitle:
		title := extract.Clean(tn.text)
		if title == nil || tn.text == skipMark {
			tn.say(e.t(tn, i18n.StepTitleEmpty, nil)+"\n"+e.t(tn, i18n.StepTitle, nil), ExitMenu)
			return sess
		}
		p.Title = title
		tn.say(e.t(tn, i18n.StepDescription, nil), ExitMenu)
		return Session{State: StepDescription, Partial: p}

	case StepDescription:
		p.Description = optional(tn.text)
		tn.say(e.t(tn, i18n.StepStart, nil), ExitMenu)
		return Session{State: StepStart, Partial: p}

	case StepStart:
		start, err := timeutil.ParseWallClock(tn.text)
		if err != nil {
			tn.say(e.t(tn, i18n.StepStartInvalid, nil), ExitMenu)
			return sess
		}
		p.Start = &start
		tn.say(e.t(tn, i18n.StepEnd, nil), ExitMenu)
		return Session{State: StepEnd, Partial: p}

	case StepEnd:
		if tn.text != skipMark {
			end, err := timeutil.ParseWallClock(tn.text)
			if err != nil {
				tn.say(e.t(tn, i18n.StepEndInvalid, nil), ExitMenu)
				return sess
			}
			if p.Start != nil && end.Before(*p.Start) {
				tn.say(e.t(tn, i18n.StepEndBeforeStart, nil), ExitMenu)
				return sess
			}
			p.End = &end
		}
		tn.say(e.t(tn, i18n.StepPlace, nil), ExitMenu)
		return Session{State: StepPlace, Partial: p}

	case StepPlace:
		p.Place = optional(tn.text)
		tn.say(e.t(tn, i18n.StepWeekly, nil), ConfirmMenu)
		return Session{State: StepWeekly, Partial: p}

	case StepWeekly:
		p.IsWeekly, _ = e.answer(tn.text)

		created, err := e.commit(tn, p)
		if err != nil {
			tn.log.Errorw("failed to save event", "error", err)
			tn.say(e.t(tn, i18n.SaveFailed, nil), ConfirmMenu)
			return Session{State: StepWeekly, Partial: p}
		}
		return e.done(tn, e.t(tn, i18n.EventAdded, nil)+"\n\n"+e.eventBlock(tn.msg.Locale, *created, created.StartTime))
	}

	return Session{}
}
