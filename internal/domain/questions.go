package domain

var questionBank = []Question{
	{
		ID:       1,
		Prompt:   "If all A are B, and all B are C, then:",
		Options:  [OptionsPerQuestion]string{"All A are C", "Some A are C", "No A is C", "It cannot be determined"},
		Correct:  0,
		Category: CategoryLogic,
	},
	{
		ID:       2,
		Prompt:   "Which number completes the sequence: 2, 6, 12, 20, 30, ?",
		Options:  [OptionsPerQuestion]string{"40", "42", "44", "46"},
		Correct:  1,
		Category: CategoryMath,
	},
	{
		ID:       3,
		Prompt:   "BOOK is to READING as PIANO is to:",
		Options:  [OptionsPerQuestion]string{"MUSIC", "KEYS", "INSTRUMENT", "SOUND"},
		Correct:  0,
		Category: CategoryVerbal,
	},
	{
		ID:       4,
		Prompt:   "If 3x + 7 = 22, what is x?",
		Options:  [OptionsPerQuestion]string{"3", "4", "5", "6"},
		Correct:  2,
		Category: CategoryMath,
	},
	{
		ID:       5,
		Prompt:   "Which word does not belong to the group?",
		Options:  [OptionsPerQuestion]string{"CAR", "BICYCLE", "AIRPLANE", "HOUSE"},
		Correct:  3,
		Category: CategoryVerbal,
	},
	{
		ID:       6,
		Prompt:   "There are 4 cats in a room. Each cat sees 3 cats. How many cats are in the room?",
		Options:  [OptionsPerQuestion]string{"3", "4", "7", "12"},
		Correct:  1,
		Category: CategoryLogic,
	},
	{
		ID:       7,
		Prompt:   "Which number comes next: 1, 1, 2, 3, 5, 8, ?",
		Options:  [OptionsPerQuestion]string{"11", "13", "15", "16"},
		Correct:  1,
		Category: CategoryMath,
	},
	{
		ID:       8,
		Prompt:   "If CODE is written as DPEF, how is TEST written?",
		Options:  [OptionsPerQuestion]string{"UFTU", "SDRS", "UFUT", "UETU"},
		Correct:  0,
		Category: CategoryVerbal,
	},
	{
		ID:       9,
		Prompt:   "A train travels 60 km in 45 minutes. What is its speed in km/h?",
		Options:  [OptionsPerQuestion]string{"75", "80", "85", "90"},
		Correct:  1,
		Category: CategoryMath,
	},
	{
		ID:       10,
		Prompt:   "If not all birds fly, and some animals that fly are not birds, then:",
		Options:  [OptionsPerQuestion]string{"All animals fly", "Some birds do not fly", "No bird flies", "All birds fly"},
		Correct:  1,
		Category: CategoryLogic,
	},
}

// Questions returns the fixed question battery in presentation order.
// The returned slice is a copy; callers may not mutate the bank.
func Questions() []Question {
	out := make([]Question, len(questionBank))
	copy(out, questionBank)
	return out
}
