// Package texts holds the bot's static replies.
package texts

const (
	Start = "Hi! I am your calorie diary.\n" +
		"First set your timezone with: set time HH:MM (your current local time).\n" +
		"Then record food with: add <calories>, fix mistakes with: sub <calories>,\n" +
		"ask totals with: give today | give all | give DD.MM,\n" +
		"and schedule reminders with: set eating HH:MM [HH:MM ...].\n" +
		"Send help to see this again, stop to erase everything."

	Help = "Commands:\n" +
		"add <v> [v ...] — record eaten calories for today\n" +
		"sub <v> [v ...] — subtract from today's total\n" +
		"give today | all | DD.MM[.YYYY] — show recorded totals\n" +
		"set time HH:MM — set your timezone by your current local time\n" +
		"set eating HH:MM [HH:MM ...] — times of day to remind you (5-minute steps)\n" +
		"stop — erase all your data and unsubscribe"

	Goodbye  = "All your data has been erased. Bye!"
	Reminder = "Time to log what you have eaten. Send: add <calories>"
	Accepted = "Got it."

	// ErrorPrefix formats every user-visible failure.
	ErrorPrefix = "Error: %s.\nSend help for usage."
)
