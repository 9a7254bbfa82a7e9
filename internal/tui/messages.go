package tui

import "github.com/verte-zerg/mapty/internal/workout"

type messageKey int

const (
	msgLocating messageKey = iota
	msgLocationFailed
	msgRetryHint
	msgPickLocation
	msgAdded
	msgRemoved
	msgResetDone
	msgConfirmReset
	msgDiscarded
)

var english = map[messageKey]string{
	msgLocating:       "Getting your position...",
	msgLocationFailed: "Could not get your position",
	msgRetryHint:      "press r to try again",
	msgPickLocation:   "Move the crosshair and press enter to add a workout",
	msgAdded:          "Workout added",
	msgRemoved:        "Workout removed",
	msgResetDone:      "All workouts deleted",
	msgConfirmReset:   "Delete all workouts? (y/n)",
	msgDiscarded:      "Saved workouts could not be read and will be replaced",
}

var russian = map[messageKey]string{
	msgLocating:       "Определяем ваше местоположение...",
	msgLocationFailed: "Невозможно определить ваше местоположение",
	msgRetryHint:      "нажмите r, чтобы повторить",
	msgPickLocation:   "Наведите перекрестие и нажмите enter, чтобы добавить тренировку",
	msgAdded:          "Тренировка добавлена",
	msgRemoved:        "Тренировка удалена",
	msgResetDone:      "Все тренировки удалены",
	msgConfirmReset:   "Удалить все тренировки? (y/n)",
	msgDiscarded:      "Сохранённые тренировки не удалось прочитать, они будут заменены",
}

func text(locale workout.Locale, key messageKey) string {
	if locale == workout.LocaleRussian {
		if s, ok := russian[key]; ok {
			return s
		}
	}
	return english[key]
}
